package mesh

// boxFaces lists the six cube faces as quads, each counter-clockwise seen from outside.
// Order: +X, -X, +Y, -Y, +Z, -Z.
var boxFaces = [6][][3]float32{
	{{0.5, -0.5, 0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {0.5, 0.5, 0.5}},
	{{-0.5, -0.5, -0.5}, {-0.5, -0.5, 0.5}, {-0.5, 0.5, 0.5}, {-0.5, 0.5, -0.5}},
	{{-0.5, 0.5, 0.5}, {0.5, 0.5, 0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5}},
	{{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, -0.5, 0.5}, {-0.5, -0.5, 0.5}},
	{{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5}},
	{{0.5, -0.5, -0.5}, {-0.5, -0.5, -0.5}, {-0.5, 0.5, -0.5}, {0.5, 0.5, -0.5}},
}

// box2Cells places each face of boxFaces on a 4x3 cube-net atlas as (column, row).
//
//	    [+Y]
//	[-X][+Z][+X][-Z]
//	    [-Y]
var box2Cells = [6][2]int{{2, 1}, {0, 1}, {1, 0}, {1, 2}, {1, 1}, {3, 1}}

// NewBox generates a 1x1x1 cube centered at the origin with flat normals.
// Every face has its own four vertices and maps the full texture.
//
// Returns:
//   - *Mesh: 24 vertices, 36 indices
func NewBox() *Mesh {
	m := New("box")
	for _, f := range boxFaces {
		m.addFace(f, quadUV)
	}
	return m
}

// NewBox2 generates the same cube as NewBox with texture coordinates laid out as an unfolded
// cube net, so one 4x3 atlas texture wraps the whole box.
//
// Returns:
//   - *Mesh: 24 vertices, 36 indices
func NewBox2() *Mesh {
	m := New("box2")
	for i, f := range boxFaces {
		col, row := float32(box2Cells[i][0]), float32(box2Cells[i][1])
		u0, u1 := col/4, (col+1)/4
		v0, v1 := row/3, (row+1)/3
		m.addFace(f, [][2]float32{{u0, v1}, {u1, v1}, {u1, v0}, {u0, v0}})
	}
	return m
}

// NewPlane generates a 2x2 quad in the XZ plane at y = 0 facing +Y.
func NewPlane() *Mesh {
	m := New("plane")
	m.addFace(square(1, 0), quadUV)
	return m
}

// NewPrism generates a triangular prism: the triangle (-0.5,-0.5), (0.5,-0.5), (0,0.5) in XY
// extruded over z in [-0.5, 0.5].
func NewPrism() *Mesh {
	return extrude("prism", [][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {0, 0.5}})
}

// NewRamp generates a right-triangle prism whose slope faces +X/+Y: the triangle
// (-0.5,-0.5), (0.5,-0.5), (-0.5,0.5) in XY extruded over z in [-0.5, 0.5].
func NewRamp() *Mesh {
	return extrude("ramp", [][2]float32{{-0.5, -0.5}, {0.5, -0.5}, {-0.5, 0.5}})
}

// extrude builds a closed prism from a convex XY profile wound counter-clockwise seen from +Z.
func extrude(name string, profile [][2]float32) *Mesh {
	m := New(name)
	front := make([][3]float32, len(profile))
	back := make([][3]float32, len(profile))
	for i, p := range profile {
		front[i] = [3]float32{p[0], p[1], 0.5}
		back[i] = [3]float32{p[0], p[1], -0.5}
	}

	m.addFace(front, planarUV(front, 0, 1))
	backCCW := reversed(back)
	m.addFace(backCCW, planarUV(backCCW, 0, 1))
	m.addWall(back, front)
	return m
}

// NewPyramid3 generates a tetrahedral pyramid: an equilateral base with circumradius 0.5
// at y = -0.5 and the apex at (0, 0.5, 0).
func NewPyramid3() *Mesh {
	const h = 0.4330127 // 0.5 * sin(120°)
	return pyramid("pyramid3", [][3]float32{
		{0, -0.5, 0.5},
		{h, -0.5, -0.25},
		{-h, -0.5, -0.25},
	})
}

// NewPyramid4 generates a square pyramid: base [-0.5, 0.5] at y = -0.5, apex at (0, 0.5, 0).
func NewPyramid4() *Mesh {
	return pyramid("pyramid4", square(0.5, -0.5))
}

// pyramid builds a pyramid over a convex base wound counter-clockwise seen from above.
func pyramid(name string, base [][3]float32) *Mesh {
	m := New(name)
	apex := [3]float32{0, 0.5, 0}

	m.BeginPart(PartBottom)
	bottom := reversed(base)
	m.addFace(bottom, planarUV(bottom, 0, 2))

	m.BeginPart(PartSides)
	for i := range base {
		j := (i + 1) % len(base)
		m.addFace([][3]float32{base[i], base[j], apex}, triUV)
	}
	m.EndPart()
	return m
}

// NewZig generates a square frustum: base [-0.5, 0.5] at y = -0.5 and a top square scaled by
// WithTopScale at y = 0.5. A top scale of 0 collapses the top cap and leaves PartTop empty.
//
// Parameters:
//   - options: generator options, only WithTopScale applies
//
// Returns:
//   - *Mesh: the mesh with bottom, sides and top parts
func NewZig(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	m := New("zig")
	bottom := square(0.5, -0.5)
	top := square(0.5*cfg.topScale, 0.5)

	m.BeginPart(PartBottom)
	bottomCCW := reversed(bottom)
	m.addFace(bottomCCW, planarUV(bottomCCW, 0, 2))

	m.BeginPart(PartSides)
	m.addWall(bottom, top)

	m.BeginPart(PartTop)
	if cfg.topScale > 0 {
		m.addFace(top, planarUV(top, 0, 2))
	}
	m.EndPart()
	return m
}

// NewTestZig generates a stepped ziggurat of WithTiers boxes stacked from y = -0.5 to 0.5.
// Tier k has half-width 0.5*(tiers-k)/tiers; the exposed ledge on top of each lower tier is
// part of PartSides, the top face of the highest tier is PartTop.
//
// Parameters:
//   - options: generator options, only WithTiers applies
//
// Returns:
//   - *Mesh: the mesh with bottom, sides and top parts
func NewTestZig(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	m := New("testzig")
	n := float32(cfg.tiers)
	halfWidth := func(k int) float32 {
		return 0.5 * (n - float32(k)) / n
	}

	m.BeginPart(PartBottom)
	bottom := reversed(square(halfWidth(0), -0.5))
	m.addFace(bottom, planarUV(bottom, 0, 2))

	m.BeginPart(PartSides)
	for k := 0; k < cfg.tiers; k++ {
		y0 := -0.5 + float32(k)/n
		y1 := -0.5 + float32(k+1)/n
		m.addWall(square(halfWidth(k), y0), square(halfWidth(k), y1))
		if k+1 < cfg.tiers {
			m.addWall(square(halfWidth(k), y1), square(halfWidth(k+1), y1))
		}
	}

	m.BeginPart(PartTop)
	top := square(halfWidth(cfg.tiers-1), 0.5)
	m.addFace(top, planarUV(top, 0, 2))
	m.EndPart()
	return m
}
