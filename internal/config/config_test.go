package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-shapes/engine/renderer"
	"github.com/Carmen-Shannon/oxy-shapes/engine/shapes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValidAndShowsEveryShape(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Objects, len(shapes.Kinds()))
	assert.Equal(t, shapes.Kinds(), cfg.Kinds())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	_, err := Load("layout.json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.ErrorIs(t, DefaultConfig().Save(filepath.Join(t.TempDir(), "layout.ini")), ErrUnsupportedFormat)
}

func TestLoadYAMLOverridesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.yml")
	src := `
window:
  title: cones
renderer:
  present_mode: uncapped
objects:
  - shape: cone
    parts: {sides: true}
    position: [1, 2, 3]
  - shape: Tapered-Cylinder
    color: [0, 0, 1, 1]
    scale: [2, 2, 2]
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "cones", cfg.Window.Title)
	assert.Equal(t, 1280, cfg.Window.Width, "unset fields keep defaults")
	mode, err := cfg.Renderer.PresentModeValue()
	require.NoError(t, err)
	assert.Equal(t, renderer.PresentModeUncapped, mode)

	require.Len(t, cfg.Objects, 2)
	cone := cfg.Objects[0]
	assert.Equal(t, "cone", cone.Name)
	require.NotNil(t, cone.Parts)
	assert.Equal(t, shapes.Parts{Sides: true}, *cone.Parts)
	assert.Equal(t, [3]float32{1, 1, 1}, cone.Scale)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, cone.Color)

	assert.Nil(t, cfg.Objects[1].Parts)
	assert.Equal(t, [3]float32{2, 2, 2}, cfg.Objects[1].Scale)
	assert.Equal(t, []shapes.Kind{shapes.KindCone, shapes.KindTaperedCylinder}, cfg.Kinds())
}

func TestSaveAndLoadEachFormat(t *testing.T) {
	for _, name := range []string{"layout.yaml", "layout.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			want := DefaultConfig()
			want.Objects = want.Objects[:2]
			want.Objects[1].Parts = &shapes.Parts{Half: true}
			require.NoError(t, want.Save(path))

			got, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, want.Window, got.Window)
			assert.Equal(t, want.Renderer, got.Renderer)
			assert.Equal(t, want.Shapes.Segments, got.Shapes.Segments)
			assert.InDelta(t, want.Shapes.Thickness, got.Shapes.Thickness, 1e-6)
			require.Len(t, got.Objects, 2)
			assert.Equal(t, want.Objects[0].Shape, got.Objects[0].Shape)
			assert.Nil(t, got.Objects[0].Parts)
			require.NotNil(t, got.Objects[1].Parts)
			assert.True(t, got.Objects[1].Parts.Half)
		})
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(path, []byte("[window\ntitle = 1"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"window", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"present mode", func(c *Config) { c.Renderer.PresentMode = "mailbox" }, "present mode"},
		{"msaa", func(c *Config) { c.Renderer.MSAA = 3 }, "msaa 3"},
		{"negative rate", func(c *Config) { c.Renderer.TickRate = -1 }, "must not be negative"},
		{"fov", func(c *Config) { c.Camera.Fov = 180 }, "fov"},
		{"clip planes", func(c *Config) { c.Camera.Far = c.Camera.Near }, "clip planes"},
		{"radius", func(c *Config) { c.Camera.Radius = 0 }, "camera radius"},
		{"segments", func(c *Config) { c.Shapes.Segments = 2 }, "segments 2"},
		{"stacks", func(c *Config) { c.Shapes.Stacks = 1 }, "stacks 1"},
		{"thickness", func(c *Config) { c.Shapes.Thickness = 1 }, "torus thickness"},
		{"top radius", func(c *Config) { c.Shapes.TopRadius = -1 }, "top_radius"},
		{"top scale", func(c *Config) { c.Shapes.TopScale = 2 }, "top_scale"},
		{"tiers", func(c *Config) { c.Shapes.Tiers = 0 }, "tiers 0"},
		{"shape", func(c *Config) { c.Objects[3].Shape = "dodecahedron" }, "object 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	cfg := DefaultConfig()
	cfg.Shapes.Segments = 0
	cfg.Shapes.Tiers = 0
	err := cfg.Validate()
	assert.ErrorContains(t, err, "segments")
	assert.ErrorContains(t, err, "tiers")
}
