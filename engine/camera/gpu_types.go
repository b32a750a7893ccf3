package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Entity shaders prepend it to their own source and bind it at group 0.
// Matches GPUCameraUniform layout exactly (96 bytes, WGSL uniform aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniformSize is the byte size of GPUCameraUniform.
const GPUCameraUniformSize = 96

// GPUCameraUniform is the GPU-aligned representation of the camera uniform buffer.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 96 bytes.
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset  0: combined view-projection matrix (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space camera position (vec3<f32>)
	_pad0          float32     // offset 76: padding
	Viewport       [2]float32  // offset 80: surface size in pixels (vec2<f32>)
	_pad1          [2]float32  // offset 88: padding to 96 bytes
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, GPUCameraUniformSize)
	off := common.PutFloat32s(buf, 0, g.ViewProj[:]...)
	off = common.PutFloat32s(buf, off, g.CameraPosition[:]...)
	common.PutFloat32s(buf, off+4, g.Viewport[:]...)
	return buf
}

// UnmarshalCameraUniform reads a marshaled camera uniform back, for CPU vertex programs.
//
// Parameters:
//   - buf: at least GPUCameraUniformSize bytes
//
// Returns:
//   - mgl32.Mat4: the view-projection matrix
//   - mgl32.Vec2: the viewport size in pixels
func UnmarshalCameraUniform(buf []byte) (viewProj mgl32.Mat4, viewport mgl32.Vec2) {
	viewProj = common.Mat4At(buf, 0)
	viewport = mgl32.Vec2{common.Float32At(buf, 80), common.Float32At(buf, 84)}
	return viewProj, viewport
}

// BindGroupLayout returns the layout of the camera bind group (group 0 of every entity pipeline).
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform at binding 0
func BindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return shader.UniformLayout("Camera Bind Group Layout", GPUCameraUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
}
