package light

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxLights is the number of point light slots in the lights uniform.
const MaxLights = 4

// GPULightsUniformSource is the canonical WGSL definition of the LightsUniform struct and the
// light_contribution function that evaluates it. Lit shaders prepend it to their own source and
// bind the uniform at group 2.
// Matches GPULightsUniform layout exactly (160 bytes, WGSL uniform aligned).
//
//go:embed assets/lights.wgsl
var GPULightsUniformSource string

// GPUPointLightSize is the byte size of GPUPointLight.
const GPUPointLightSize = 32

// GPULightsUniformSize is the byte size of GPULightsUniform.
const GPULightsUniformSize = 32 + MaxLights*GPUPointLightSize

// GPUPointLight is the GPU-aligned representation of a single point light.
// Size: 32 bytes.
type GPUPointLight struct {
	Position  [3]float32 // offset  0: world-space position
	Range     float32    // offset 12: attenuation cutoff distance
	Color     [3]float32 // offset 16: RGB color
	Intensity float32    // offset 28: scalar multiplier
}

// Size returns the size of the GPUPointLight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUPointLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// GPULightsUniform is the GPU-aligned representation of the light rig.
// Matches the WGSL LightsUniform struct layout exactly (see GPULightsUniformSource).
// Size: 160 bytes.
type GPULightsUniform struct {
	Ambient [4]float32               // offset  0: ambient RGB premultiplied by its intensity, w unused
	Count   uint32                   // offset 16: number of populated light slots
	_pad    [3]uint32                // offset 20: padding to 32 bytes
	Lights  [MaxLights]GPUPointLight // offset 32: light slots
}

// Size returns the size of the GPULightsUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (160)
func (g *GPULightsUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULightsUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 160-byte buffer ready for GPU upload
func (g *GPULightsUniform) Marshal() []byte {
	buf := make([]byte, GPULightsUniformSize)
	common.PutFloat32s(buf, 0, g.Ambient[:]...)
	binary.LittleEndian.PutUint32(buf[16:20], g.Count)
	off := 32
	for i := range g.Lights {
		l := &g.Lights[i]
		off = common.PutFloat32s(buf, off, l.Position[0], l.Position[1], l.Position[2], l.Range)
		off = common.PutFloat32s(buf, off, l.Color[0], l.Color[1], l.Color[2], l.Intensity)
	}
	return buf
}

// BindGroupLayout returns the layout of the lights bind group (group 2 of lit pipelines).
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform at binding 0
func BindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return shader.UniformLayout("Lights Bind Group Layout", GPULightsUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
}

// Contribution is the CPU rendition of light_contribution: the ambient term plus the
// range-attenuated Lambert term of every populated light, read from a marshaled lights uniform.
//
// Parameters:
//   - buf: a marshaled GPULightsUniform
//   - worldPos: the shaded point
//   - normal: the unit surface normal at worldPos
//
// Returns:
//   - mgl32.Vec3: the incoming light, to be multiplied with the surface color
func Contribution(buf []byte, worldPos, normal mgl32.Vec3) mgl32.Vec3 {
	sum := common.Vec4At(buf, 0).Vec3()
	count := min(int(binary.LittleEndian.Uint32(buf[16:20])), MaxLights)
	for i := range count {
		off := 32 + i*GPUPointLightSize
		pos := common.Vec3At(buf, off)
		lightRange := common.Float32At(buf, off+12)
		color := common.Vec3At(buf, off+16)
		intensity := common.Float32At(buf, off+28)

		toLight := pos.Sub(worldPos)
		dist := toLight.Len()
		if lightRange <= 0 {
			continue
		}
		falloff := common.Clamp(1-dist/lightRange, 0, 1)
		diffuse := math32.Max(normal.Dot(toLight.Mul(1/math32.Max(dist, 0.0001))), 0)
		sum = sum.Add(color.Mul(intensity * diffuse * falloff * falloff))
	}
	return sum
}
