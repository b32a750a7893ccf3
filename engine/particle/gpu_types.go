package particle

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// PipelineKeyAdditive draws particle sprites with additive blending.
	PipelineKeyAdditive = "particles_additive"
	// PipelineKeyAlpha draws particle sprites with straight-alpha blending.
	PipelineKeyAlpha = "particles_alpha"
)

// ReferenceHeight is the viewport height at which the size scale maps to pixels one to one.
const ReferenceHeight float32 = 1080

//go:embed assets/particle.wgsl
var particleSource string

// GPUParticle is one instance record of the particle vertex buffer.
// Size: 28 bytes.
type GPUParticle struct {
	Position  [3]float32 // offset  0
	Color     [3]float32 // offset 12
	PointSize float32    // offset 24
}

// Size returns the size of the GPUParticle struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (28)
func (g *GPUParticle) Size() int {
	return int(unsafe.Sizeof(*g))
}

// GPUParticleUniformSize is the byte size of GPUParticleUniform.
const GPUParticleUniformSize = 96

// GPUParticleUniform is the per-field shading uniform.
// Size: 96 bytes.
type GPUParticleUniform struct {
	Model   [16]float32 // offset  0: field rotation
	Params  [4]float32  // offset 64: time, drift amplitude, pulse amount, size scale
	Params2 [4]float32  // offset 80: opacity, glow, reference height, unused
}

// Marshal serializes the GPUParticleUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPUParticleUniform) Marshal() []byte {
	buf := make([]byte, GPUParticleUniformSize)
	off := common.PutFloat32s(buf, 0, g.Model[:]...)
	off = common.PutFloat32s(buf, off, g.Params[:]...)
	common.PutFloat32s(buf, off, g.Params2[:]...)
	return buf
}

// InstanceData interleaves a field's buffers into GPUParticle records.
//
// Parameters:
//   - f: the field
//
// Returns:
//   - []byte: Count records of 28 bytes
func InstanceData(f Field) []byte {
	positions, colors, sizes := f.Positions(), f.Colors(), f.Sizes()
	records := make([]GPUParticle, f.Count())
	for i := range records {
		records[i] = GPUParticle{
			Position:  [3]float32(positions[i*3 : i*3+3]),
			Color:     [3]float32(colors[i*3 : i*3+3]),
			PointSize: sizes[i],
		}
	}
	return append([]byte(nil), common.SliceToBytes(records)...)
}

// BindGroupLayout returns the layout of the particle uniform bind group (group 1).
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform at binding 0
func BindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return shader.UniformLayout("Particle Bind Group Layout", GPUParticleUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
}

// Pipeline builds the sprite pipeline for particle fields. Points are depth tested against
// opaque geometry but never write depth.
//
// Parameters:
//   - additive: true for PipelineKeyAdditive, false for PipelineKeyAlpha
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline
func Pipeline(additive bool) pipeline.Pipeline {
	key, blend := PipelineKeyAlpha, pipeline.AlphaBlend()
	if additive {
		key, blend = PipelineKeyAdditive, pipeline.AdditiveBlend()
	}
	source := camera.GPUCameraUniformSource + particleSource
	vs := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, source,
		shader.WithVertexLayout(shader.Float32Layout(wgpu.VertexStepModeInstance, 0, 3, 3, 1)),
		shader.WithBindGroupLayout(0, camera.BindGroupLayout()),
		shader.WithBindGroupLayout(1, BindGroupLayout()),
	)
	fs := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, source)
	return pipeline.NewPipeline(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexProgram(vertexProgram),
		pipeline.WithSprites(true),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(true),
		pipeline.WithBlendState(blend),
	)
}

// vertexProgram mirrors particle.wgsl for one instance record.
func vertexProgram(vertex []byte, groups [][]byte) pipeline.VertexOutput {
	viewProj, viewport := camera.UnmarshalCameraUniform(groups[0])
	u := groups[1]
	modelMatrix := common.Mat4At(u, 0)
	params := common.Vec4At(u, 64)
	params2 := common.Vec4At(u, 80)
	t, drift, pulseAmount, sizeScale := params[0], params[1], params[2], params[3]

	pos := common.Vec3At(vertex, 0)
	color := common.Vec3At(vertex, 12)
	size := common.Float32At(vertex, 24)

	world := common.TransformPoint(modelMatrix, pos).Vec3()
	world[0] += math32.Sin(t*0.5+pos[1]*0.01) * drift
	world[1] += math32.Cos(t*0.3+pos[0]*0.01) * drift

	pulse := (math32.Sin(t*2+pos[1]*0.1)*0.5 + 0.5) * pulseAmount
	if world.Len() > 0 {
		world = world.Add(world.Normalize().Mul(pulse * 0.5))
	}

	clip := viewProj.Mul4x1(world.Vec4(1))
	pixels := size * sizeScale / math32.Max(clip[3], 0.0001) * (1 + pulse*0.3) * viewport[1] / params2[2]
	rgb := color.Add(mgl32.Vec3{1, 1, 1}.Mul(params2[1] * 0.5))
	return pipeline.VertexOutput{
		Position:  clip,
		Color:     rgb.Vec4(params2[0]),
		PointSize: pixels,
	}
}
