package common

// Plane is a plane in the form dot(Normal, p) + Distance = 0.
type Plane struct {
	Normal   [3]float32
	Distance float32
}

// Frustum holds the six view-frustum planes with normals pointing inwards.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Frustum plane indices.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// ExtractFrustumFromMatrix extracts the normalized frustum planes from a column-major
// view-projection matrix (Gribb/Hartmann). The near plane uses the WebGPU [0, 1] depth
// convention, so it is row 2 on its own rather than row 3 + row 2.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: 16 float32 values, column-major
//
// Returns:
//   - Frustum: the extracted frustum
func ExtractFrustumFromMatrix(viewProj []float32) Frustum {
	// row(i) returns row i of the matrix as (x, y, z, w).
	row := func(i int) [4]float32 {
		return [4]float32{viewProj[i], viewProj[4+i], viewProj[8+i], viewProj[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	combine := func(a, b [4]float32, sign float32) Plane {
		return Plane{
			Normal:   [3]float32{a[0] + sign*b[0], a[1] + sign*b[1], a[2] + sign*b[2]},
			Distance: a[3] + sign*b[3],
		}
	}

	var f Frustum
	f.Planes[FrustumLeft] = combine(r3, r0, 1)
	f.Planes[FrustumRight] = combine(r3, r0, -1)
	f.Planes[FrustumBottom] = combine(r3, r1, 1)
	f.Planes[FrustumTop] = combine(r3, r1, -1)
	f.Planes[FrustumNear] = Plane{Normal: [3]float32{r2[0], r2[1], r2[2]}, Distance: r2[3]}
	f.Planes[FrustumFar] = combine(r3, r2, -1)

	for i := range f.Planes {
		p := &f.Planes[i]
		if l := Length3(p.Normal); l > 0 {
			p.Normal = Scale3(p.Normal, 1/l)
			p.Distance /= l
		}
	}
	return f
}

// ContainsSphere reports whether a sphere intersects or lies inside the frustum.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - bool: false only when the sphere is entirely outside one plane
func (f *Frustum) ContainsSphere(center [3]float32, radius float32) bool {
	for _, p := range f.Planes {
		if Dot3(p.Normal, center)+p.Distance < -radius {
			return false
		}
	}
	return true
}
