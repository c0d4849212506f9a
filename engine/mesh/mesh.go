// Package mesh generates CPU-side vertex and index data for the primitive shape templates.
// Every generator produces a unit-sized mesh with interleaved position/normal/uv vertices and
// a uint32 triangle list; scaling and placement are left to the model matrix at draw time.
// Named index ranges (parts) let callers draw a cap, the sides or half of a shape on its own.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-shapes/common"
	"github.com/chewxy/math32"
)

// ErrInvalidMesh is returned by Validate when the index or part data is inconsistent.
var ErrInvalidMesh = errors.New("invalid mesh")

// normalTolerance is how far a normal's length may drift from 1 before Validate rejects it.
const normalTolerance = 1e-3

// Part names a contiguous sub-range of a mesh's index buffer that can be drawn on its own.
type Part string

const (
	// PartTop is the upper cap of a cylinder, tapered cylinder or zig.
	PartTop Part = "top"

	// PartBottom is the lower cap (base) of a cone, cylinder, tapered cylinder or zig.
	PartBottom Part = "bottom"

	// PartSides is the lateral surface between the caps.
	PartSides Part = "sides"

	// PartUpperHalf is the y >= 0 half of a sphere or torus.
	PartUpperHalf Part = "upper_half"
)

// Range is a span of the index buffer, measured in indices.
type Range struct {
	FirstIndex uint32
	IndexCount uint32
}

// End returns the index one past the last index of the range.
func (r Range) End() uint32 {
	return r.FirstIndex + r.IndexCount
}

// Mesh holds the generated vertex and index data of one shape template.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32

	parts     map[Part]Range
	openPart  Part
	openStart uint32
	partOpen  bool
}

// New creates an empty Mesh with the given debug name.
//
// Parameters:
//   - name: the mesh name, used for logging, GPU labels and OBJ export
//
// Returns:
//   - *Mesh: the empty mesh
func New(name string) *Mesh {
	return &Mesh{
		Name:  name,
		parts: make(map[Part]Range),
	}
}

// AddVertex appends a vertex and returns its index.
//
// Parameters:
//   - pos: position in model space
//   - normal: unit surface normal
//   - uv: texture coordinate
//
// Returns:
//   - uint32: the index of the new vertex
func (m *Mesh) AddVertex(pos, normal [3]float32, uv [2]float32) uint32 {
	m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: normal, UV: uv})
	return uint32(len(m.Vertices) - 1)
}

// AddTriangle appends one triangle. Counter-clockwise winding seen from outside is the front face.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// AddQuad appends the quad a-b-c-d as the two triangles (a, b, c) and (a, c, d).
func (m *Mesh) AddQuad(a, b, c, d uint32) {
	m.Indices = append(m.Indices, a, b, c, a, c, d)
}

// BeginPart starts recording a named part at the current end of the index buffer.
// An already open part is closed first.
//
// Parameters:
//   - p: the part name
func (m *Mesh) BeginPart(p Part) {
	if m.partOpen {
		m.EndPart()
	}
	m.openPart = p
	m.openStart = uint32(len(m.Indices))
	m.partOpen = true
}

// EndPart closes the part opened by BeginPart. The part covers every index appended in between.
func (m *Mesh) EndPart() {
	if !m.partOpen {
		return
	}
	m.SetPart(m.openPart, Range{FirstIndex: m.openStart, IndexCount: uint32(len(m.Indices)) - m.openStart})
	m.partOpen = false
}

// SetPart records an explicit index range for a part, replacing any previous range.
//
// Parameters:
//   - p: the part name
//   - r: the index range
func (m *Mesh) SetPart(p Part, r Range) {
	if m.parts == nil {
		m.parts = make(map[Part]Range)
	}
	m.parts[p] = r
}

// Part returns the index range of a named part.
//
// Parameters:
//   - p: the part name
//
// Returns:
//   - Range: the index range of the part
//   - bool: false if the mesh has no such part
func (m *Mesh) Part(p Part) (Range, bool) {
	r, ok := m.parts[p]
	return r, ok
}

// Parts returns the names of all parts, ordered by their position in the index buffer.
func (m *Mesh) Parts() []Part {
	out := make([]Part, 0, len(m.parts))
	for p := range m.parts {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Part) int {
		ra, rb := m.parts[a], m.parts[b]
		if ra.FirstIndex != rb.FirstIndex {
			return int(ra.FirstIndex) - int(rb.FirstIndex)
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
		return 0
	})
	return out
}

// Full returns the range covering the whole index buffer.
func (m *Mesh) Full() Range {
	return Range{FirstIndex: 0, IndexCount: uint32(len(m.Indices))}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// IndexCount returns the number of indices.
func (m *Mesh) IndexCount() int {
	return len(m.Indices)
}

// VertexBytes serializes every vertex into one interleaved little-endian buffer.
//
// Returns:
//   - []byte: VertexCount() * VertexSize bytes ready for GPU upload
func (m *Mesh) VertexBytes() []byte {
	buf := make([]byte, len(m.Vertices)*VertexSize)
	for i := range m.Vertices {
		m.Vertices[i].marshalInto(buf[i*VertexSize:])
	}
	return buf
}

// IndexBytes serializes the index buffer as little-endian uint32 values.
//
// Returns:
//   - []byte: IndexCount() * 4 bytes ready for GPU upload
func (m *Mesh) IndexBytes() []byte {
	buf := make([]byte, len(m.Indices)*4)
	for i, idx := range m.Indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// Bounds returns the axis-aligned bounding box of the vertex positions.
// An empty mesh yields two zero vectors.
//
// Returns:
//   - [3]float32: the minimum corner
//   - [3]float32: the maximum corner
func (m *Mesh) Bounds() (minP, maxP [3]float32) {
	if len(m.Vertices) == 0 {
		return minP, maxP
	}
	minP = m.Vertices[0].Position
	maxP = minP
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			minP[i] = math32.Min(minP[i], v.Position[i])
			maxP[i] = math32.Max(maxP[i], v.Position[i])
		}
	}
	return minP, maxP
}

// BoundingRadius returns the radius of the smallest origin-centered sphere enclosing every vertex.
// Templates are built around the origin, so this is the culling radius before model scaling.
func (m *Mesh) BoundingRadius() float32 {
	var maxDistSq float32
	for _, v := range m.Vertices {
		if d := common.Dot3(v.Position, v.Position); d > maxDistSq {
			maxDistSq = d
		}
	}
	return math32.Sqrt(maxDistSq)
}

// Validate checks the structural invariants of the mesh: a whole number of triangles, every
// index referencing an existing vertex, unit-length normals and part ranges that lie inside
// the index buffer on triangle boundaries.
//
// Returns:
//   - error: an error wrapping ErrInvalidMesh describing the first violation, or nil
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %s: index count %d is not a multiple of 3", ErrInvalidMesh, m.Name, len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: %s: index %d at position %d out of range (%d vertices)", ErrInvalidMesh, m.Name, idx, i, n)
		}
	}
	for i, v := range m.Vertices {
		if l := common.Length3(v.Normal); math32.Abs(l-1) > normalTolerance {
			return fmt.Errorf("%w: %s: vertex %d normal has length %f", ErrInvalidMesh, m.Name, i, l)
		}
	}
	for p, r := range m.parts {
		if r.FirstIndex%3 != 0 || r.IndexCount%3 != 0 {
			return fmt.Errorf("%w: %s: part %s does not start and end on a triangle boundary", ErrInvalidMesh, m.Name, p)
		}
		if r.End() > uint32(len(m.Indices)) {
			return fmt.Errorf("%w: %s: part %s range [%d, %d) exceeds %d indices", ErrInvalidMesh, m.Name, p, r.FirstIndex, r.End(), len(m.Indices))
		}
	}
	return nil
}

// MergeRanges sorts ranges by their first index and coalesces adjacent or overlapping spans,
// so a combination of parts is drawn with the fewest draw calls. Empty ranges are dropped.
//
// Parameters:
//   - ranges: the ranges to merge; the slice is not modified
//
// Returns:
//   - []Range: the merged, sorted ranges
func MergeRanges(ranges []Range) []Range {
	sorted := make([]Range, 0, len(ranges))
	for _, r := range ranges {
		if r.IndexCount > 0 {
			sorted = append(sorted, r)
		}
	}
	slices.SortFunc(sorted, func(a, b Range) int {
		return int(a.FirstIndex) - int(b.FirstIndex)
	})

	merged := make([]Range, 0, len(sorted))
	for _, r := range sorted {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if r.FirstIndex <= last.End() {
				if r.End() > last.End() {
					last.IndexCount = r.End() - last.FirstIndex
				}
				continue
			}
		}
		merged = append(merged, r)
	}
	return merged
}
