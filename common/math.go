package common

import (
	"unsafe"

	"github.com/chewxy/math32"
)

// Identity resets a 4x4 column-major matrix to the identity matrix.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes reinterprets a slice of fixed-size values as raw bytes for GPU uploads.
// The returned slice aliases the input and must not outlive or be mutated alongside it.
//
// Parameters:
//   - data: source slice of any fixed-size type
//
// Returns:
//   - []byte: byte view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(unsafe.Sizeof(zero))*len(data))
}

// Mul4 multiplies two column-major 4x4 matrices: out = a * b.
// out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += a[k*4+row] * b[col*4+k]
			}
			buf[col*4+row] = sum
		}
	}
	copy(out, buf[:])
}

// Transpose4 writes the transpose of m into out. out may alias m.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements)
func Transpose4(out, m []float32) {
	var buf [16]float32
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			buf[row*4+col] = m[col*4+row]
		}
	}
	copy(out, buf[:])
}

// Perspective builds a right-handed perspective projection that maps view depth
// into the WebGPU clip range [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1 / math32.Tan(fovY/2)
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1
	out[14] = (near * far) / (near - far)
	out[15] = 0
}

// BuildModelMatrix composes translation, Euler rotation and scale into a column-major
// model matrix. Rotation order is Y * X * Z.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - pos: translation in world space
//   - rot: rotation angles in radians around X, Y and Z
//   - scale: scale factors along X, Y and Z
func BuildModelMatrix(out []float32, pos, rot, scale [3]float32) {
	sx, cx := math32.Sincos(rot[0])
	sy, cy := math32.Sincos(rot[1])
	sz, cz := math32.Sincos(rot[2])

	out[0] = (cy*cz + sy*sx*sz) * scale[0]
	out[1] = (cx * sz) * scale[0]
	out[2] = (-sy*cz + cy*sx*sz) * scale[0]
	out[3] = 0

	out[4] = (-cy*sz + sy*sx*cz) * scale[1]
	out[5] = (cx * cz) * scale[1]
	out[6] = (sy*sz + cy*sx*cz) * scale[1]
	out[7] = 0

	out[8] = (sy * cx) * scale[2]
	out[9] = -sx * scale[2]
	out[10] = (cy * cx) * scale[2]
	out[11] = 0

	out[12] = pos[0]
	out[13] = pos[1]
	out[14] = pos[2]
	out[15] = 1
}

// NormalMatrix writes the inverse-transpose of model into out, with the translation
// column cleared. Falls back to the identity when model is singular (zero scale).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - model: the model matrix (16 elements, column-major)
func NormalMatrix(out, model []float32) {
	var inv [16]float32
	if !Invert4(inv[:], model) {
		Identity(out)
		return
	}
	Transpose4(out, inv[:])
	out[3], out[7], out[11] = 0, 0, 0
	out[12], out[13], out[14] = 0, 0, 0
	out[15] = 1
}

// Invert4 inverts a column-major 4x4 matrix by cofactor expansion.
// When the matrix is singular out is left untouched.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - m: source matrix (16 elements, column-major)
//
// Returns:
//   - bool: false if m is singular
func Invert4(out, m []float32) bool {
	s0 := m[0]*m[5] - m[4]*m[1]
	s1 := m[0]*m[6] - m[4]*m[2]
	s2 := m[0]*m[7] - m[4]*m[3]
	s3 := m[1]*m[6] - m[5]*m[2]
	s4 := m[1]*m[7] - m[5]*m[3]
	s5 := m[2]*m[7] - m[6]*m[3]

	c5 := m[10]*m[15] - m[14]*m[11]
	c4 := m[9]*m[15] - m[13]*m[11]
	c3 := m[9]*m[14] - m[13]*m[10]
	c2 := m[8]*m[15] - m[12]*m[11]
	c1 := m[8]*m[14] - m[12]*m[10]
	c0 := m[8]*m[13] - m[12]*m[9]

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}
	inv := 1 / det

	var buf [16]float32
	buf[0] = (m[5]*c5 - m[6]*c4 + m[7]*c3) * inv
	buf[1] = (-m[1]*c5 + m[2]*c4 - m[3]*c3) * inv
	buf[2] = (m[13]*s5 - m[14]*s4 + m[15]*s3) * inv
	buf[3] = (-m[9]*s5 + m[10]*s4 - m[11]*s3) * inv

	buf[4] = (-m[4]*c5 + m[6]*c2 - m[7]*c1) * inv
	buf[5] = (m[0]*c5 - m[2]*c2 + m[3]*c1) * inv
	buf[6] = (-m[12]*s5 + m[14]*s2 - m[15]*s1) * inv
	buf[7] = (m[8]*s5 - m[10]*s2 + m[11]*s1) * inv

	buf[8] = (m[4]*c4 - m[5]*c2 + m[7]*c0) * inv
	buf[9] = (-m[0]*c4 + m[1]*c2 - m[3]*c0) * inv
	buf[10] = (m[12]*s4 - m[13]*s2 + m[15]*s0) * inv
	buf[11] = (-m[8]*s4 + m[9]*s2 - m[11]*s0) * inv

	buf[12] = (-m[4]*c3 + m[5]*c1 - m[6]*c0) * inv
	buf[13] = (m[0]*c3 - m[1]*c1 + m[2]*c0) * inv
	buf[14] = (-m[12]*s3 + m[13]*s1 - m[14]*s0) * inv
	buf[15] = (m[8]*s3 - m[9]*s1 + m[10]*s0) * inv

	copy(out, buf[:])
	return true
}

// LookAt builds a right-handed view matrix looking from eye towards center.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up direction, typically (0, 1, 0)
func LookAt(out []float32, eye, center, up [3]float32) {
	z := Normalize3(Sub3(eye, center))
	if z == ([3]float32{}) {
		z = [3]float32{0, 0, 1}
	}
	x := Normalize3(Cross3(up, z))
	y := Cross3(z, x)

	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -Dot3(x, eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -Dot3(y, eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -Dot3(z, eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// TransformPoint applies a column-major 4x4 matrix to a point (w = 1).
//
// Parameters:
//   - m: the matrix (16 elements)
//   - p: the point to transform
//
// Returns:
//   - [3]float32: the transformed point, not divided by w
func TransformPoint(m []float32, p [3]float32) [3]float32 {
	return [3]float32{
		m[0]*p[0] + m[4]*p[1] + m[8]*p[2] + m[12],
		m[1]*p[0] + m[5]*p[1] + m[9]*p[2] + m[13],
		m[2]*p[0] + m[6]*p[1] + m[10]*p[2] + m[14],
	}
}
