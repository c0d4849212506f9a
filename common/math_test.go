package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertMatrixInDelta(t *testing.T, want, got []float32) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func identity() []float32 {
	m := make([]float32, 16)
	Identity(m)
	return m
}

func TestMul4Identity(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{1, 2, 3}, [3]float32{0.3, 0.2, 0.1}, [3]float32{2, 2, 2})

	out := make([]float32, 16)
	Mul4(out, identity(), m)
	assertMatrixInDelta(t, m, out)

	Mul4(out, m, identity())
	assertMatrixInDelta(t, m, out)
}

func TestInvert4(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{-4, 1, 9}, [3]float32{0.7, -1.1, 0.4}, [3]float32{1, 3, 0.5})

	inv := make([]float32, 16)
	require.True(t, Invert4(inv, m))

	out := make([]float32, 16)
	Mul4(out, m, inv)
	assertMatrixInDelta(t, identity(), out)

	singular := make([]float32, 16)
	untouched := []float32{7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7, 7}
	assert.False(t, Invert4(untouched, singular))
	assert.Equal(t, float32(7), untouched[0])
}

func TestBuildModelMatrixTranslatesAndScales(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{1, 2, 3}, [3]float32{}, [3]float32{2, 3, 4})

	p := TransformPoint(m, [3]float32{1, 1, 1})
	assert.InDelta(t, 3, p[0], tol)
	assert.InDelta(t, 5, p[1], tol)
	assert.InDelta(t, 7, p[2], tol)

	BuildModelMatrix(m, [3]float32{}, [3]float32{0, math32.Pi / 2, 0}, [3]float32{1, 1, 1})
	p = TransformPoint(m, [3]float32{1, 0, 0})
	assert.InDelta(t, 0, p[0], tol)
	assert.InDelta(t, -1, p[2], tol)
}

func TestNormalMatrix(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, [3]float32{5, 5, 5}, [3]float32{}, [3]float32{2, 1, 1})

	n := make([]float32, 16)
	NormalMatrix(n, m)
	assert.InDelta(t, 0.5, n[0], tol)
	assert.InDelta(t, 1, n[5], tol)
	assert.Equal(t, float32(0), n[12], "translation is dropped")
	assert.Equal(t, float32(1), n[15])

	zero := make([]float32, 16)
	NormalMatrix(n, zero)
	assertMatrixInDelta(t, identity(), n)
}

func TestLookAt(t *testing.T) {
	view := make([]float32, 16)
	LookAt(view, [3]float32{0, 0, 5}, [3]float32{}, [3]float32{0, 1, 0})

	p := TransformPoint(view, [3]float32{})
	assert.InDelta(t, 0, p[0], tol)
	assert.InDelta(t, 0, p[1], tol)
	assert.InDelta(t, -5, p[2], tol, "target lies in front of the camera on -Z")
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := make([]float32, 16)
	Perspective(proj, math32.Pi/4, 1, 0.1, 100)

	depth := func(z float32) float32 {
		clipZ := proj[10]*z + proj[14]
		clipW := proj[11] * z
		return clipZ / clipW
	}
	assert.InDelta(t, 0, depth(-0.1), tol)
	assert.InDelta(t, 1, depth(-100), tol)
}

func TestTranspose4(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i)
	}
	Transpose4(m, m)
	assert.Equal(t, float32(4), m[1])
	assert.Equal(t, float32(1), m[4])
	assert.Equal(t, float32(15), m[15])
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]uint32{}))
	assert.Len(t, SliceToBytes([]uint32{1, 2, 3}), 12)
	assert.Len(t, SliceToBytes([][3]float32{{1, 2, 3}}), 12)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 3, Coalesce(0, 0, 3))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, [3]float32{1, 1, 1}, Coalesce([3]float32{}, [3]float32{1, 1, 1}))
	assert.Equal(t, [3]float32{2, 0, 0}, Coalesce([3]float32{2, 0, 0}, [3]float32{1, 1, 1}))
}
