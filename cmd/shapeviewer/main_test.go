package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/Carmen-Shannon/oxy-shapes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExportToStdout(t *testing.T) {
	out, err := runCLI(t, "export", "box")
	require.NoError(t, err)

	assert.Contains(t, out, "o box\n")
	var faces int
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "f ") {
			faces++
		}
	}
	assert.Equal(t, 12, faces)
}

func TestExportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "torus.obj")
	out, err := runCLI(t, "export", "torus", "--segments", "8", "--thickness", "0.3", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# torus:"))
	assert.Contains(t, string(data), "vn ")
}

func TestExportUnknownShape(t *testing.T) {
	_, err := runCLI(t, "export", "dodecahedron")
	require.ErrorIs(t, err, shapes.ErrUnknownKind)

	_, err = runCLI(t, "export")
	assert.Error(t, err, "shape argument is required")
}

func TestStatsListsEveryShape(t *testing.T) {
	out, err := runCLI(t, "stats", "--segments", "6", "--stacks", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(shapes.Kinds())+1)
	assert.True(t, strings.HasPrefix(lines[0], "SHAPE"))
	for i, kind := range shapes.Kinds() {
		assert.Equal(t, kind.String(), strings.Fields(lines[i+1])[0])
	}
}

func TestInitWritesDefaultLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yaml")

	out, err := runCLI(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	want := config.DefaultConfig()
	assert.Equal(t, want.Window, cfg.Window)
	assert.Equal(t, want.Camera, cfg.Camera)
	require.Len(t, cfg.Objects, len(want.Objects))
	assert.Equal(t, want.Objects[0].Shape, cfg.Objects[0].Shape)

	_, err = runCLI(t, "--config", path, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runCLI(t, "--config", path, "init", "--force")
	assert.NoError(t, err)
}

func TestViewRejectsInvalidLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("camera:\n  fov: 270\n"), 0o644))

	_, err := runCLI(t, "--config", path, "view")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestWriteOBJFile(t *testing.T) {
	m, err := shapes.Generate(shapes.KindPyramid4)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "pyramid.obj")
	require.NoError(t, writeOBJFile(path, m))

	stdout, err := runCLI(t, "export", "pyramid4")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(data), "file and stdout exports match")

	err = writeOBJFile(filepath.Join(dir, "missing", "pyramid.obj"), m)
	assert.ErrorContains(t, err, "create ")
}
