package wave

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// PipelineKey draws wave planes: double sided, additive, no depth writes.
const PipelineKey = "wave_plane"

//go:embed assets/wave.wgsl
var waveSource string

// GPUWaveUniformSize is the byte size of GPUWaveUniform.
const GPUWaveUniformSize = 112

// GPUWaveUniform is the per-plane shading uniform.
// Size: 112 bytes.
type GPUWaveUniform struct {
	Model  [16]float32 // offset  0: fixed orientation and placement
	ColorA [4]float32  // offset 64: color at v = 0, opacity
	ColorB [4]float32  // offset 80: color at v = 1, unused
	Params [4]float32  // offset 96: scaled time, amplitude, glow, unused
}

// Size returns the size of the GPUWaveUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (112)
func (g *GPUWaveUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUWaveUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer ready for GPU upload
func (g *GPUWaveUniform) Marshal() []byte {
	buf := make([]byte, GPUWaveUniformSize)
	off := common.PutFloat32s(buf, 0, g.Model[:]...)
	off = common.PutFloat32s(buf, off, g.ColorA[:]...)
	off = common.PutFloat32s(buf, off, g.ColorB[:]...)
	common.PutFloat32s(buf, off, g.Params[:]...)
	return buf
}

// BindGroupLayout returns the layout of the wave uniform bind group (group 1).
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform at binding 0
func BindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return shader.UniformLayout("Wave Bind Group Layout", GPUWaveUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
}

// Pipeline builds the wave plane pipeline.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline, keyed PipelineKey
func Pipeline() pipeline.Pipeline {
	source := camera.GPUCameraUniformSource + waveSource
	vs := shader.NewShader(PipelineKey+"_vs", shader.ShaderTypeVertex, source,
		shader.WithVertexLayout(shader.Float32Layout(wgpu.VertexStepModeVertex, 0, 2, 2)),
		shader.WithBindGroupLayout(0, camera.BindGroupLayout()),
		shader.WithBindGroupLayout(1, BindGroupLayout()),
	)
	fs := shader.NewShader(PipelineKey+"_fs", shader.ShaderTypeFragment, source)
	return pipeline.NewPipeline(PipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexProgram(vertexProgram),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(true),
		pipeline.WithBlendState(pipeline.AdditiveBlend()),
	)
}

// vertexProgram mirrors wave.wgsl, shading per vertex.
func vertexProgram(vertex []byte, groups [][]byte) pipeline.VertexOutput {
	viewProj, _ := camera.UnmarshalCameraUniform(groups[0])
	u := groups[1]
	modelMatrix := common.Mat4At(u, 0)
	colorA := common.Vec4At(u, 64)
	colorB := common.Vec3At(u, 80)
	params := common.Vec4At(u, 96)

	x, y := common.Float32At(vertex, 0), common.Float32At(vertex, 4)
	tu, tv := common.Float32At(vertex, 8), common.Float32At(vertex, 12)
	z := Displacement(x, y, params[0], params[1])

	c := shade(common.Color(colorA.Vec3()), common.Color(colorB), params[2], tu, tv)
	return pipeline.VertexOutput{
		Position: viewProj.Mul4(modelMatrix).Mul4x1(mgl32.Vec4{x, y, z, 1}),
		Color:    mgl32.Vec4{c[0], c[1], c[2], colorA[3]},
	}
}
