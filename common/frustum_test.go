package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func testFrustum() Frustum {
	view := make([]float32, 16)
	proj := make([]float32, 16)
	viewProj := make([]float32, 16)
	LookAt(view, [3]float32{0, 0, 10}, [3]float32{}, [3]float32{0, 1, 0})
	Perspective(proj, math32.Pi/4, 1, 0.1, 50)
	Mul4(viewProj, proj, view)
	return ExtractFrustumFromMatrix(viewProj)
}

func TestExtractFrustumPlanesAreNormalized(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		assert.InDelta(t, 1, Length3(p.Normal), 1e-5, "plane %d", i)
	}
	// camera looks down -Z from z=10, so the near plane faces -Z
	assert.InDelta(t, -1, f.Planes[FrustumNear].Normal[2], 1e-5)
	assert.InDelta(t, 9.9, f.Planes[FrustumNear].Distance, 1e-3)
}

func TestContainsSphere(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name   string
		center [3]float32
		radius float32
		want   bool
	}{
		{"origin", [3]float32{0, 0, 0}, 1, true},
		{"behind camera", [3]float32{0, 0, 20}, 1, false},
		{"straddles near plane", [3]float32{0, 0, 10.5}, 1, true},
		{"far left", [3]float32{-100, 0, 0}, 1, false},
		{"large sphere reaching in", [3]float32{-10, 0, 0}, 8, true},
		{"beyond far plane", [3]float32{0, 0, -45}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ContainsSphere(tt.center, tt.radius))
		})
	}
}
