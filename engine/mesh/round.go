package mesh

import (
	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/chewxy/math32"
)

// addDisc appends a flat cap of the given radius in the plane y as a center fan.
// normalY is +1 for a cap facing up and -1 for one facing down.
func (m *Mesh) addDisc(y, radius, normalY float32, segments int, cs, sn []float32) {
	n := [3]float32{0, normalY, 0}
	center := m.AddVertex([3]float32{0, y, 0}, n, [2]float32{0.5, 0.5})
	first := center + 1
	for i := 0; i < segments; i++ {
		m.AddVertex([3]float32{radius * cs[i], y, radius * sn[i]}, n, [2]float32{0.5 + 0.5*cs[i], 0.5 - 0.5*normalY*sn[i]})
	}
	for i := 0; i < segments; i++ {
		a := first + uint32(i)
		b := first + uint32((i+1)%segments)
		if normalY < 0 {
			m.AddTriangle(center, a, b)
		} else {
			m.AddTriangle(center, b, a)
		}
	}
}

// addFrustumSides appends the smooth lateral surface between a ring of radius r0 at y0
// and a ring of radius r1 at y1.
func (m *Mesh) addFrustumSides(segments int, r0, r1, y0, y1 float32, cs, sn []float32) {
	h := y1 - y0
	d := r0 - r1
	base := uint32(len(m.Vertices))
	for i := 0; i <= segments; i++ {
		u := float32(i) / float32(segments)
		n := common.Normalize3([3]float32{h * cs[i], d, h * sn[i]})
		m.AddVertex([3]float32{r0 * cs[i], y0, r0 * sn[i]}, n, [2]float32{u, 1})
		m.AddVertex([3]float32{r1 * cs[i], y1, r1 * sn[i]}, n, [2]float32{u, 0})
	}
	for i := uint32(0); i < uint32(segments); i++ {
		b0, t0 := base+2*i, base+2*i+1
		b1, t1 := b0+2, t0+2
		m.AddQuad(b0, t0, t1, b1)
	}
}

// NewCone generates a cone with base radius 1 at y = 0 and the apex at (0, 1, 0).
// Each slice has its own apex vertex so the slanted normals stay smooth around the axis.
//
// Parameters:
//   - options: generator options, only WithSegments applies
//
// Returns:
//   - *Mesh: the mesh with bottom and sides parts
func NewCone(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	n := cfg.segments
	cs, sn := ring(n)
	m := New("cone")

	m.BeginPart(PartBottom)
	m.addDisc(0, 1, -1, n, cs, sn)

	m.BeginPart(PartSides)
	base := uint32(len(m.Vertices))
	for i := 0; i <= n; i++ {
		m.AddVertex([3]float32{cs[i], 0, sn[i]}, common.Normalize3([3]float32{cs[i], 1, sn[i]}), [2]float32{float32(i) / float32(n), 1})
	}
	apex := uint32(len(m.Vertices))
	for i := 0; i < n; i++ {
		mid := (float32(i) + 0.5) / float32(n)
		s, c := math32.Sincos(2 * math32.Pi * mid)
		m.AddVertex([3]float32{0, 1, 0}, common.Normalize3([3]float32{c, 1, s}), [2]float32{mid, 0})
	}
	for i := uint32(0); i < uint32(n); i++ {
		m.AddTriangle(base+i, apex+i, base+i+1)
	}
	m.EndPart()
	return m
}

// NewCylinder generates a cylinder of radius 1 spanning y in [0, 1].
// Index order is bottom cap, sides, top cap.
//
// Parameters:
//   - options: generator options, only WithSegments applies
//
// Returns:
//   - *Mesh: the mesh with bottom, sides and top parts
func NewCylinder(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	return capped("cylinder", cfg.segments, 1)
}

// NewTaperedCylinder generates a cylinder with bottom radius 1 and top radius WithTopRadius,
// spanning y in [0, 1], with slanted side normals. Index order matches NewCylinder.
//
// Parameters:
//   - options: generator options, WithSegments and WithTopRadius apply
//
// Returns:
//   - *Mesh: the mesh with bottom, sides and top parts
func NewTaperedCylinder(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	return capped("tapered_cylinder", cfg.segments, cfg.topRadius)
}

func capped(name string, segments int, topRadius float32) *Mesh {
	cs, sn := ring(segments)
	m := New(name)

	m.BeginPart(PartBottom)
	m.addDisc(0, 1, -1, segments, cs, sn)

	m.BeginPart(PartSides)
	m.addFrustumSides(segments, 1, topRadius, 0, 1, cs, sn)

	m.BeginPart(PartTop)
	m.addDisc(1, topRadius, 1, segments, cs, sn)
	m.EndPart()
	return m
}

// NewSphere generates a UV sphere of radius 1 centered at the origin. Stacks are emitted from
// the north pole down, so the first half of the index buffer is the upper hemisphere and is
// recorded as PartUpperHalf. Pole stacks use a single triangle per slice.
//
// Parameters:
//   - options: generator options, WithSegments and WithStacks apply
//
// Returns:
//   - *Mesh: (segments+1)*(stacks+1) vertices and 6*segments*(stacks-1) indices
func NewSphere(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	n, st := cfg.segments, cfg.stacks
	cs, sn := ring(n)
	m := New("sphere")

	for k := 0; k <= st; k++ {
		sp, cp := math32.Sincos(math32.Pi * float32(k) / float32(st))
		for j := 0; j <= n; j++ {
			p := [3]float32{sp * cs[j], cp, sp * sn[j]}
			m.AddVertex(p, common.Normalize3(p), [2]float32{float32(j) / float32(n), float32(k) / float32(st)})
		}
	}

	row := uint32(n + 1)
	for k := 0; k < st; k++ {
		for j := 0; j < n; j++ {
			up := uint32(k)*row + uint32(j)
			lo := up + row
			if k != 0 {
				m.AddTriangle(lo, up, up+1)
			}
			if k != st-1 {
				m.AddTriangle(lo, up+1, lo+1)
			}
		}
	}

	m.SetPart(PartUpperHalf, Range{FirstIndex: 0, IndexCount: uint32(3 * n * (st - 1))})
	return m
}

// NewTorus generates a torus with major radius 1 lying in the XY plane around the Z axis and a
// tube radius of WithThickness. Rings are emitted by main angle starting at +X, so the first half
// of the index buffer is the y >= 0 half and is recorded as PartUpperHalf. The segment count is
// rounded up to an even number; WithStacks sets the tube resolution.
//
// Parameters:
//   - options: generator options, WithSegments, WithStacks and WithThickness apply
//
// Returns:
//   - *Mesh: the torus mesh
func NewTorus(options ...GeneratorOption) *Mesh {
	cfg := newGeneratorConfig(options...)
	n := cfg.segments
	if n%2 != 0 {
		n++
	}
	t := cfg.stacks
	r := cfg.thickness
	ucs, usn := ring(n)
	vcs, vsn := ring(t)
	m := New("torus")

	for i := 0; i <= n; i++ {
		for j := 0; j <= t; j++ {
			rr := 1 + r*vcs[j]
			m.AddVertex(
				[3]float32{rr * ucs[i], rr * usn[i], r * vsn[j]},
				[3]float32{vcs[j] * ucs[i], vcs[j] * usn[i], vsn[j]},
				[2]float32{float32(i) / float32(n), float32(j) / float32(t)},
			)
		}
	}

	row := uint32(t + 1)
	for i := uint32(0); i < uint32(n); i++ {
		for j := uint32(0); j < uint32(t); j++ {
			a := i*row + j
			b := a + row
			m.AddQuad(a, b, b+1, a+1)
		}
	}

	m.SetPart(PartUpperHalf, Range{FirstIndex: 0, IndexCount: uint32(6 * t * n / 2)})
	return m
}
