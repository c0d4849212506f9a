package mesh

import (
	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/chewxy/math32"
)

// quadUV maps a quad given bottom-left, bottom-right, top-right, top-left to the full texture.
var quadUV = [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// triUV maps a triangle given base-left, base-right, apex.
var triUV = [][2]float32{{0, 1}, {1, 1}, {0.5, 0}}

// addFace appends a flat convex polygon as a triangle fan with its own vertices.
// The face normal comes from the first three corners, so corners must wind
// counter-clockwise seen from the side the face looks towards.
func (m *Mesh) addFace(corners [][3]float32, uvs [][2]float32) {
	n := common.TriangleNormal(corners[0], corners[1], corners[2])
	base := uint32(len(m.Vertices))
	for i, p := range corners {
		m.AddVertex(p, n, uvs[i])
	}
	for i := 1; i+1 < len(corners); i++ {
		m.AddTriangle(base, base+uint32(i), base+uint32(i+1))
	}
}

// addWall joins two rings of equal length with one flat quad per edge.
// Both rings wind counter-clockwise seen from the outer side of the wall's first
// quad, i.e. counter-clockwise from above for a vertical wall around the Y axis.
func (m *Mesh) addWall(lower, upper [][3]float32) {
	n := len(lower)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		m.addFace([][3]float32{lower[i], lower[j], upper[j], upper[i]}, quadUV)
	}
}

// square returns the corners of an axis-aligned square in the plane y, counter-clockwise seen from above.
func square(half, y float32) [][3]float32 {
	return [][3]float32{
		{-half, y, half},
		{half, y, half},
		{half, y, -half},
		{-half, y, -half},
	}
}

// reversed returns a copy of s in reverse order.
func reversed[T any](s []T) []T {
	out := make([]T, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// planarUV projects points onto two axes of a unit template, mapping [-0.5, 0.5] to [0, 1]
// with v growing downwards.
func planarUV(pts [][3]float32, ui, vi int) [][2]float32 {
	out := make([][2]float32, len(pts))
	for i, p := range pts {
		out[i] = [2]float32{p[ui] + 0.5, 0.5 - p[vi]}
	}
	return out
}

// ring returns cos and sin of n evenly spaced angles starting at 0, plus a closing
// sample equal to the first so seams share exact positions.
func ring(n int) (cs, sn []float32) {
	cs = make([]float32, n+1)
	sn = make([]float32, n+1)
	for i := 0; i < n; i++ {
		sn[i], cs[i] = math32.Sincos(2 * math32.Pi * float32(i) / float32(n))
	}
	cs[n], sn[n] = cs[0], sn[0]
	return cs, sn
}
