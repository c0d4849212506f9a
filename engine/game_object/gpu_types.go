package game_object

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUObjectUniformSource is the WGSL definition of the ObjectUniform struct included by the
// shape shaders through //@oxy:include object.
//
//go:embed assets/object_uniform.wgsl
var GPUObjectUniformSource string

// GPUObjectUniformSize is the byte size of ObjectUniform (two mat4x4 + vec4).
const GPUObjectUniformSize = 144

// GPUObjectUniform is the per-object uniform written to each object's bind group every frame.
type GPUObjectUniform struct {
	Model  [16]float32 // offset   0: model matrix
	Normal [16]float32 // offset  64: inverse-transpose of the model matrix
	Color  [4]float32  // offset 128: RGBA
}

// Size returns the size of the GPUObjectUniform struct in bytes.
func (g *GPUObjectUniform) Size() int {
	return GPUObjectUniformSize
}

// Marshal serializes the uniform into a little-endian byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer
func (g *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, GPUObjectUniformSize)
	g.MarshalInto(buf)
	return buf
}

// MarshalInto serializes the uniform into buf, which must hold at least GPUObjectUniformSize bytes.
// The scene reuses one buffer per object across frames.
func (g *GPUObjectUniform) MarshalInto(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Model[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Normal[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[128+i*4:], math.Float32bits(g.Color[i]))
	}
}
