package common

import "github.com/chewxy/math32"

// Add3 returns a + b.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub3 returns a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale3 returns v scaled by s.
func Scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Dot3 returns the dot product of a and b.
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 returns the cross product a x b.
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 returns the Euclidean length of v.
func Length3(v [3]float32) float32 {
	return math32.Sqrt(Dot3(v, v))
}

// Normalize3 returns v scaled to unit length. A zero-length vector is returned unchanged.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - [3]float32: the unit vector, or the zero vector
func Normalize3(v [3]float32) [3]float32 {
	l := Length3(v)
	if l < 1e-12 {
		return v
	}
	return Scale3(v, 1/l)
}

// TriangleNormal computes the unit face normal of the triangle (p0, p1, p2).
// Counter-clockwise winding, seen from the side the normal points to, is the front face.
// Degenerate triangles yield the zero vector.
//
// Parameters:
//   - p0, p1, p2: the triangle corners in winding order
//
// Returns:
//   - [3]float32: the unit normal
func TriangleNormal(p0, p1, p2 [3]float32) [3]float32 {
	return Normalize3(Cross3(Sub3(p1, p0), Sub3(p2, p0)))
}
