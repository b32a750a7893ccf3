package renderer

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend. Requires a WGPUSurface.
	BackendTypeWGPU RendererBackendType = iota

	// BackendTypeRaster selects the CPU raster backend. Requires a RasterSurface.
	BackendTypeRaster

	// BackendTypeAuto picks WGPU for a WGPUSurface and Raster for a RasterSurface.
	BackendTypeAuto
)

// String returns the flag name of the backend type.
func (t RendererBackendType) String() string {
	switch t {
	case BackendTypeWGPU:
		return "wgpu"
	case BackendTypeRaster:
		return "raster"
	case BackendTypeAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4. The raster backend ignores it.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// RendererBackend is the interface every backend implements. The Renderer serializes calls
// into it and owns the pipeline cache; backends own device objects and render targets.
type RendererBackend interface {
	// ConfigureSurface (re)creates the render targets for a surface size.
	ConfigureSurface(width, height int) error

	// SetPresentMode sets the present mode applied on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color each frame starts from.
	SetClearColor(c common.Color)

	// RegisterRenderPipeline creates the backend pipeline and stores it on p.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// InitMeshBuffers uploads vertex and (optional) index data onto a provider.
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error

	// InitBindGroup creates the uniform buffers and bind group described by descriptor.
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers applies staged buffer writes.
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the frame target and clears it.
	BeginFrame() error

	// DrawCall records one draw into the current frame.
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame finishes recording and submits the frame.
	EndFrame() error

	// Present delivers the finished frame to the surface.
	Present() error

	// Release frees the render targets and the device context.
	Release()
}
