package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
)

// GPUCameraUniformSource is the WGSL definition of the CameraUniform struct included by the
// shape shaders through //@oxy:include camera.
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the byte size of CameraUniform (mat4x4 + vec4).
const GPUCameraUniformSize = 80

// GPUCameraUniform is the CPU side of the WGSL CameraUniform struct.
type GPUCameraUniform struct {
	ViewProj [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	Eye      [4]float32  // offset 64: world-space camera position, w = 1 (vec4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return GPUCameraUniformSize
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.ViewProj[i]))
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Eye[i]))
	}
	return buf
}
