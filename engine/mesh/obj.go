package mesh

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the mesh as a Wavefront OBJ object. Every vertex emits one v/vt/vn triple so
// face corners use the same 1-based index for all three; named parts become OBJ groups and faces
// outside every part are grouped under the mesh name.
// Texture v coordinates are flipped since OBJ places the origin at the bottom-left.
//
// Parameters:
//   - w: the destination writer
//   - m: the mesh to export
//
// Returns:
//   - error: the first write error, if any
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s: %d vertices, %d triangles\n", m.Name, m.VertexCount(), m.IndexCount()/3)
	fmt.Fprintf(bw, "o %s\n", m.Name)
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vt %g %g\n", v.UV[0], 1-v.UV[1])
	}
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}

	groups := make(map[uint32]string)
	for _, p := range m.Parts() {
		r, _ := m.Part(p)
		if _, taken := groups[r.FirstIndex]; !taken && r.IndexCount > 0 {
			groups[r.FirstIndex] = string(p)
		}
	}
	for _, p := range m.Parts() {
		r, _ := m.Part(p)
		if _, taken := groups[r.End()]; !taken && r.IndexCount > 0 {
			groups[r.End()] = m.Name
		}
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		if g, ok := groups[uint32(i)]; ok {
			fmt.Fprintf(bw, "g %s\n", g)
		}
		a, b, c := m.Indices[i]+1, m.Indices[i+1]+1, m.Indices[i+2]+1
		fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
	}
	return bw.Flush()
}
