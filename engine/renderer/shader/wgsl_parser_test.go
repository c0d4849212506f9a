package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripComments(t *testing.T) {
	src := "a // line\nb /* one /* nested */ still */ c\n"
	assert.Equal(t, "a \nb  c\n", stripComments(src))
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: f32, b: array<vec4<f32>, 4>, c: u32")
	assert.Len(t, parts, 3)
	assert.Contains(t, parts[1], "array<vec4<f32>, 4>")
}

func TestComputeStructSizes(t *testing.T) {
	structs := parseStructBlocks(`
struct Outer { inner: Inner, tail: f32, }
struct Inner { a: vec3<f32>, b: f32, }
struct Lights { count: u32, items: array<vec4<f32>, 3>, }
`)
	sizes := computeStructSizes(structs)

	assert.Equal(t, uint64(16), sizes["Inner"].size)
	assert.Equal(t, uint64(32), sizes["Outer"].size, "declared after its user")
	assert.Equal(t, uint64(64), sizes["Lights"].size)
}

func TestResolveRuntimeArray(t *testing.T) {
	l, ok := resolveTypeLayout("array<vec3<f32>>", nil)
	assert.True(t, ok)
	assert.Equal(t, uint64(16), l.size)

	_, ok = resolveTypeLayout("array<Unknown, 2>", nil)
	assert.False(t, ok)
}
