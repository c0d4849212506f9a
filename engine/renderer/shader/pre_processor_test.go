package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpandsGroupAnnotation(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:group 0 1 storage_read items object")
	require.NoError(t, err)
	assert.Equal(t, "@group(0) @binding(1) var<storage, read> items: ObjectUniform;", out)

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, AnnotationTypeBindingGroup, decls[0].Type)
	assert.Equal(t, 0, *decls[0].Group)
	assert.Equal(t, 1, *decls[0].Binding)
	assert.Equal(t, AnnotationArgObject, decls[0].StructKey())
}

func TestProcessRegisteredStruct(t *testing.T) {
	pp := NewPreProcessor()
	pp.Register("tint", "struct Tint { rgba: vec4<f32>, };", "Tint")

	out, err := pp.Process("//@oxy:include tint\n//@oxy:group 2 0 storage_uniform tint tint")
	require.NoError(t, err)
	assert.Contains(t, out, "struct Tint")
	assert.Contains(t, out, "var<uniform> tint: Tint;")
}

func TestProcessResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("//@oxy:group 0 0 storage_uniform camera camera")
	require.NoError(t, err)
	_, err = pp.Process("fn plain() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestParseAnnotationErrors(t *testing.T) {
	known := []AnnotationArg{AnnotationArgCamera}
	lines := []string{
		"//@oxy:",
		"//@oxy:include",
		"//@oxy:include camera extra",
		"//@oxy:include light",
		"//@oxy:group 0 0 storage_uniform camera",
		"//@oxy:group 0 -1 storage_uniform camera camera",
		"//@oxy:group 0 0 private camera camera",
		"//@oxy:provider 2 0 material",
	}
	for _, line := range lines {
		a, err := parseAnnotation(line, 3, known)
		assert.Error(t, err, line)
		assert.Nil(t, a, line)
		if err != nil {
			assert.Contains(t, err.Error(), "line 3", line)
		}
	}

	a, err := parseAnnotation("    let x = 1.0; // not an annotation", 1, known)
	assert.NoError(t, err)
	assert.Nil(t, a)
}
