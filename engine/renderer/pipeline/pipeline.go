package pipeline

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// VertexOutput is the result of running a VertexProgram on one vertex record.
type VertexOutput struct {
	// Position is the clip-space position.
	Position mgl32.Vec4
	// Color is the straight-alpha RGBA color.
	Color mgl32.Vec4
	// PointSize is the sprite diameter in pixels; only read by sprite pipelines.
	PointSize float32
}

// VertexProgram is the CPU rendition of a pipeline's vertex stage, used by the raster backend.
// vertex holds one record of the mesh's vertex buffer; groups[g] holds the binding-0 buffer of
// bind group g, in the order the groups are passed to DrawCall.
type VertexProgram func(vertex []byte, groups [][]byte) VertexOutput

// pipeline is the implementation of the Pipeline interface.
// It holds the backend pipeline object and the state used to create it.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	vertexShader, fragmentShader shader.Shader
	vertexProgram                VertexProgram

	// renderPipeline is the backend pipeline object, nil until registered with a Renderer
	renderPipeline bind_group_provider.Resource
	// owned are auxiliary backend objects created alongside the pipeline (modules, layouts)
	owned []bind_group_provider.Resource

	depthTestEnabled  bool
	depthWriteEnabled bool
	blendEnabled      bool
	sprites           bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
}

// Pipeline defines the interface for a render pipeline: a vertex and fragment shader pair plus the
// depth, blend, cull and topology state required to create it. A Pipeline also carries the CPU
// VertexProgram mirroring its vertex shader so backends without a GPU can draw it.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage of the shader to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader, or nil if not set
	Shader(shaderType shader.ShaderType) shader.Shader

	// VertexProgram returns the CPU vertex stage, or nil if the pipeline has none.
	//
	// Returns:
	//   - VertexProgram: the CPU vertex program
	VertexProgram() VertexProgram

	// Pipeline returns the backend pipeline object, nil until the pipeline is registered.
	//
	// Returns:
	//   - bind_group_provider.Resource: the backend pipeline
	Pipeline() bind_group_provider.Resource

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// Sprites reports whether each vertex record is drawn as a screen-aligned quad of
	// VertexOutput.PointSize pixels instead of being assembled into primitives.
	//
	// Returns:
	//   - bool: true for sprite pipelines
	Sprites() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState

	// SetRenderPipeline stores the backend pipeline and the auxiliary objects it owns.
	// Called by the Renderer when the pipeline is registered.
	//
	// Parameters:
	//   - p: the backend pipeline object
	//   - owned: modules and layouts released together with the pipeline
	SetRenderPipeline(p bind_group_provider.Resource, owned ...bind_group_provider.Resource)

	// Release releases the backend pipeline and everything it owns. Calling it again is a no-op.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new render Pipeline.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:       pipelineKey,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState:        AlphaBlend(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// AlphaBlend returns the standard straight-alpha "over" blend state.
//
// Returns:
//   - *wgpu.BlendState: src·α + dst·(1-α)
func AlphaBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// AdditiveBlend returns an additive blend state weighted by source alpha.
//
// Returns:
//   - *wgpu.BlendState: src·α + dst
func AdditiveBlend() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Pipeline() bind_group_provider.Resource {
	return p.renderPipeline
}

func (p *pipeline) VertexProgram() VertexProgram {
	return p.vertexProgram
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) Sprites() bool {
	return p.sprites
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) SetRenderPipeline(rp bind_group_provider.Resource, owned ...bind_group_provider.Resource) {
	p.renderPipeline = rp
	p.owned = owned
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	for _, r := range p.owned {
		if r != nil {
			r.Release()
		}
	}
	p.owned = nil
}
