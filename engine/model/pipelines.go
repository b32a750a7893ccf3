package model

import (
	_ "embed"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/light"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// LitPipelineKey draws solid models shaded by a light rig. Bind groups: camera, mesh uniform, lights.
	LitPipelineKey = "lit_mesh"
	// LinePipelineKey draws line-list models in a flat color. Bind groups: camera, mesh uniform.
	LinePipelineKey = "line_mesh"
)

// GPUMeshUniformSource is the canonical WGSL definition of the MeshUniform struct.
//
//go:embed assets/mesh_uniform.wgsl
var GPUMeshUniformSource string

//go:embed assets/lit.wgsl
var litSource string

//go:embed assets/line.wgsl
var lineSource string

// GPUMeshUniformSize is the byte size of GPUMeshUniform.
const GPUMeshUniformSize = 96

// GPUMeshUniform is the per-draw uniform of the lit and line pipelines.
// Matches the WGSL MeshUniform struct layout exactly (see GPUMeshUniformSource).
// Size: 96 bytes.
type GPUMeshUniform struct {
	Model    [16]float32 // offset  0: model matrix
	Color    [4]float32  // offset 64: RGB plus opacity
	Emissive [4]float32  // offset 80: emissive RGB premultiplied by its intensity, w unused
}

// Marshal serializes the GPUMeshUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPUMeshUniform) Marshal() []byte {
	buf := make([]byte, GPUMeshUniformSize)
	off := common.PutFloat32s(buf, 0, g.Model[:]...)
	off = common.PutFloat32s(buf, off, g.Color[:]...)
	common.PutFloat32s(buf, off, g.Emissive[:]...)
	return buf
}

// NewMeshUniform builds the uniform for one draw.
//
// Parameters:
//   - modelMatrix: the model-to-world transform
//   - color: the base color
//   - opacity: alpha in [0, 1]
//   - emissive: the emissive color, already scaled by its intensity
//
// Returns:
//   - GPUMeshUniform: the uniform
func NewMeshUniform(modelMatrix mgl32.Mat4, color common.Color, opacity float32, emissive common.Color) GPUMeshUniform {
	return GPUMeshUniform{
		Model:    modelMatrix,
		Color:    [4]float32{color[0], color[1], color[2], opacity},
		Emissive: [4]float32{emissive[0], emissive[1], emissive[2], 0},
	}
}

// MeshBindGroupLayout returns the layout of the mesh uniform bind group (group 1).
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a single uniform at binding 0
func MeshBindGroupLayout() wgpu.BindGroupLayoutDescriptor {
	return shader.UniformLayout("Mesh Bind Group Layout", GPUMeshUniformSize, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
}

// LitPipeline builds the translucent, back-face culled pipeline for solid models.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline, keyed LitPipelineKey
func LitPipeline() pipeline.Pipeline {
	source := camera.GPUCameraUniformSource + GPUMeshUniformSource + light.GPULightsUniformSource + litSource
	vs := shader.NewShader(LitPipelineKey+"_vs", shader.ShaderTypeVertex, source,
		shader.WithVertexLayout(shader.Float32Layout(wgpu.VertexStepModeVertex, 0, 3, 3)),
		shader.WithBindGroupLayout(0, camera.BindGroupLayout()),
		shader.WithBindGroupLayout(1, MeshBindGroupLayout()),
		shader.WithBindGroupLayout(2, light.BindGroupLayout()),
	)
	fs := shader.NewShader(LitPipelineKey+"_fs", shader.ShaderTypeFragment, source)
	return pipeline.NewPipeline(LitPipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexProgram(litProgram),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(true),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
}

// LinePipeline builds the translucent line-list pipeline for wireframe models and line sets.
//
// Returns:
//   - pipeline.Pipeline: the unregistered pipeline, keyed LinePipelineKey
func LinePipeline() pipeline.Pipeline {
	source := camera.GPUCameraUniformSource + GPUMeshUniformSource + lineSource
	vs := shader.NewShader(LinePipelineKey+"_vs", shader.ShaderTypeVertex, source,
		shader.WithVertexLayout(shader.Float32Layout(wgpu.VertexStepModeVertex, 0, 3)),
		shader.WithBindGroupLayout(0, camera.BindGroupLayout()),
		shader.WithBindGroupLayout(1, MeshBindGroupLayout()),
	)
	fs := shader.NewShader(LinePipelineKey+"_fs", shader.ShaderTypeFragment, source)
	return pipeline.NewPipeline(LinePipelineKey,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexProgram(lineProgram),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(true),
		pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
	)
}

// litProgram mirrors lit.wgsl, evaluating the light rig per vertex.
func litProgram(vertex []byte, groups [][]byte) pipeline.VertexOutput {
	viewProj, _ := camera.UnmarshalCameraUniform(groups[0])
	modelMatrix := common.Mat4At(groups[1], 0)
	color := common.Vec4At(groups[1], 64)
	emissive := common.Vec3At(groups[1], 80)

	world := common.TransformPoint(modelMatrix, common.Vec3At(vertex, 0))
	normal := common.TransformDirection(modelMatrix, common.Vec3At(vertex, 12))
	if normal.Len() > 0 {
		normal = normal.Normalize()
	}
	incoming := light.Contribution(groups[2], world.Vec3(), normal)
	rgb := mgl32.Vec3{color[0] * incoming[0], color[1] * incoming[1], color[2] * incoming[2]}.Add(emissive)
	return pipeline.VertexOutput{
		Position: viewProj.Mul4x1(world),
		Color:    rgb.Vec4(color[3]),
	}
}

// lineProgram mirrors line.wgsl.
func lineProgram(vertex []byte, groups [][]byte) pipeline.VertexOutput {
	viewProj, _ := camera.UnmarshalCameraUniform(groups[0])
	modelMatrix := common.Mat4At(groups[1], 0)
	return pipeline.VertexOutput{
		Position: viewProj.Mul4(modelMatrix).Mul4x1(common.Vec3At(vertex, 0).Vec4(1)),
		Color:    common.Vec4At(groups[1], 64),
	}
}
