package common

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

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

// Perspective creates a right-handed perspective projection matrix for WebGPU clip space,
// where depth maps to [0, 1] rather than the OpenGL [-1, 1] range produced by mgl32.Perspective.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	var out mgl32.Mat4
	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	return out
}

// LookAt creates a view matrix that positions and orients the camera.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - mgl32.Mat4: the column-major view matrix
func LookAt(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	if eye.ApproxEqual(center) {
		return mgl32.Ident4()
	}
	return mgl32.LookAtV(eye, center, up)
}

// ModelMatrix constructs a model matrix from a translation, an XYZ Euler rotation and a scale.
// The rotation is applied as Rx * Ry * Rz, so Z rotates first in object space.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around each axis
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl32.HomogRotate3DX(rotation[0])).
		Mul4(mgl32.HomogRotate3DY(rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(rotation[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// TransformPoint multiplies a point (w = 1) by a 4x4 matrix.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec4 {
	return m.Mul4x1(p.Vec4(1))
}

// TransformDirection multiplies a direction (w = 0) by a 4x4 matrix.
func TransformDirection(m mgl32.Mat4, d mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}

// Smoothstep performs Hermite interpolation between 0 and 1 when edge0 < x < edge1.
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Clamp limits v to the closed range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	return math32.Max(lo, math32.Min(hi, v))
}

// PutFloat32s writes values as little-endian float32s into buf starting at offset.
// Returns the offset immediately after the last written value.
//
// Parameters:
//   - buf: destination byte buffer
//   - offset: byte offset of the first value
//   - values: the values to write
//
// Returns:
//   - int: the byte offset following the written values
func PutFloat32s(buf []byte, offset int, values ...float32) int {
	for _, v := range values {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
		offset += 4
	}
	return offset
}

// Float32At reads a little-endian float32 from buf at the given byte offset.
func Float32At(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

// Mat4At reads a column-major 4x4 matrix from buf at the given byte offset.
func Mat4At(buf []byte, offset int) mgl32.Mat4 {
	var m mgl32.Mat4
	for i := range 16 {
		m[i] = Float32At(buf, offset+i*4)
	}
	return m
}

// Vec3At reads three consecutive float32s from buf at the given byte offset.
func Vec3At(buf []byte, offset int) mgl32.Vec3 {
	return mgl32.Vec3{Float32At(buf, offset), Float32At(buf, offset+4), Float32At(buf, offset+8)}
}

// Vec4At reads four consecutive float32s from buf at the given byte offset.
func Vec4At(buf []byte, offset int) mgl32.Vec4 {
	return mgl32.Vec4{Float32At(buf, offset), Float32At(buf, offset+4), Float32At(buf, offset+8), Float32At(buf, offset+12)}
}
