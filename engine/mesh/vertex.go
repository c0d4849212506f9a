package mesh

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct shared by every shape pipeline.
// Matches Vertex layout exactly (32 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// VertexSize is the byte stride of one Vertex in a vertex buffer.
const VertexSize = 32

// Vertex is a single interleaved mesh vertex as it is laid out in the vertex buffer.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
type Vertex struct {
	Position [3]float32 // offset  0: position in model space (12 bytes)
	Normal   [3]float32 // offset 12: unit surface normal (12 bytes)
	UV       [2]float32 // offset 24: texture coordinate (8 bytes)
}

// Size returns the size of the Vertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *Vertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the Vertex into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (v *Vertex) Marshal() []byte {
	buf := make([]byte, VertexSize)
	v.marshalInto(buf)
	return buf
}

func (v *Vertex) marshalInto(buf []byte) {
	for i := 0; i < 3; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v.Position[i]))
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(v.Normal[i]))
	}
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(v.UV[0]))
	binary.LittleEndian.PutUint32(buf[28:], math.Float32bits(v.UV[1]))
}
