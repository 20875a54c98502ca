package common

import (
	"math"
	"unsafe"
)

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// Mul4 multiplies two 4x4 matrices and stores the result in out.
// All matrices are stored in column-major order (WebGPU convention).
// Result: out = a * b. out may alias a or b.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - a: left-hand matrix (16 elements)
//   - b: right-hand matrix (16 elements)
func Mul4(out, a, b []float32) {
	var buf [16]float32
	for i := 0; i < 4; i++ { // column of B
		for j := 0; j < 4; j++ { // row of A
			sum := float32(0)
			for k := 0; k < 4; k++ {
				sum += a[k*4+j] * b[i*4+k]
			}
			buf[i*4+j] = sum
		}
	}
	copy(out, buf[:])
}

// Perspective creates a perspective projection matrix.
// Uses the WebGPU clip space convention with depth in [0, 1].
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
func Perspective(out []float32, fovY, aspect, near, far float32) {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))
	Identity(out)

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
}

// LookAt creates a view matrix that transforms world coordinates to camera
// space for a camera at eye looking toward center with the given up vector.
// The camera basis is right-handed: +Z points away from the look direction.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
func LookAt(out []float32, eye, center, up Vec3) {
	z := eye.Sub(center).Normalize()
	if z == (Vec3{}) {
		// eye and center coincide; fall back to looking down -Z
		z = Vec3{0, 0, 1}
	}
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	out[0], out[4], out[8], out[12] = x.X, x.Y, x.Z, -x.Dot(eye)
	out[1], out[5], out[9], out[13] = y.X, y.Y, y.Z, -y.Dot(eye)
	out[2], out[6], out[10], out[14] = z.X, z.Y, z.Z, -z.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
}

// ComposeRigid builds the camera-to-world rigid transform from an orthonormal
// basis and a position. The basis vectors become the rotation columns and the
// position becomes the translation column. This is the inverse of the LookAt
// matrix built from the same basis.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - x: camera right axis in world space
//   - y: camera up axis in world space
//   - z: camera backward axis in world space (opposite the look direction)
//   - position: camera position in world space
func ComposeRigid(out []float32, x, y, z, position Vec3) {
	out[0], out[1], out[2], out[3] = x.X, x.Y, x.Z, 0
	out[4], out[5], out[6], out[7] = y.X, y.Y, y.Z, 0
	out[8], out[9], out[10], out[11] = z.X, z.Y, z.Z, 0
	out[12], out[13], out[14], out[15] = position.X, position.Y, position.Z, 1
}

// InvertRigid computes the inverse of a rigid transform (rotation +
// translation, no scale or shear) by transposing the rotation block and
// rotating the negated translation. Much cheaper than a general 4x4 inverse
// and exact for view/world matrices.
//
// Parameters:
//   - out: destination slice (must be at least 16 elements); must not alias m
//   - m: source rigid matrix (16 elements, column-major)
func InvertRigid(out, m []float32) {
	// Transpose the 3x3 rotation block.
	out[0], out[1], out[2], out[3] = m[0], m[4], m[8], 0
	out[4], out[5], out[6], out[7] = m[1], m[5], m[9], 0
	out[8], out[9], out[10], out[11] = m[2], m[6], m[10], 0

	// t' = -Rᵀ * t
	tx, ty, tz := m[12], m[13], m[14]
	out[12] = -(m[0]*tx + m[1]*ty + m[2]*tz)
	out[13] = -(m[4]*tx + m[5]*ty + m[6]*tz)
	out[14] = -(m[8]*tx + m[9]*ty + m[10]*tz)
	out[15] = 1
}
