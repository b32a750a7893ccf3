package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend
	ledger      *ledger
	released    bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	clearColor           common.Color
	rasterWorkers        int
	bloomRadius          float64
	bloomStrength        float64
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines and delegates device work to a backend; every backend
// object it creates is counted in a resource ledger so callers can verify that a scene released
// everything it acquired.
type Renderer interface {
	// BackendType reports the backend selected at construction.
	//
	// Returns:
	//   - RendererBackendType: BackendTypeWGPU or BackendTypeRaster
	BackendType() RendererBackendType

	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the backend objects for one or more pipelines and caches them by
	// PipelineKey. Pipelines whose keys are already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize configures the backend for a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if the render targets could not be recreated
	Resize(width, height int) error

	// SetClearColor sets the background color each frame starts from.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.Color)

	// InitMeshBuffers creates vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes
	//   - indexData: the raw uint32 index data bytes, or nil for non-indexed meshes
	//   - vertexCount: the number of vertex records in vertexData
	//   - indexCount: the number of indices in indexData
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error

	// InitBindGroup creates buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers applies staged buffer writes.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the frame target and begins the main render pass.
	// Must be paired with EndFrame after all DrawCall invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the frame target could not be acquired
	BeginFrame() error

	// DrawCall encodes a single draw command within the current frame.
	// Indexed meshes draw their index buffer; non-indexed meshes draw VertexCount records;
	// sprite pipelines draw one quad per vertex record.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - instanceCount: the number of instances to draw
	//   - bindGroups: the BindGroupProviders bound to groups 0..n-1
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the current render pass and submits it.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	//
	// Returns:
	//   - error: an error if the frame could not be submitted
	EndFrame() error

	// Present presents the finished frame to the surface.
	//
	// Returns:
	//   - error: an error if the surface rejected the frame
	Present() error

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Stats returns a snapshot of the resource ledger.
	//
	// Returns:
	//   - LedgerStats: acquired, released and double-released counts
	Stats() LedgerStats

	// Release releases every cached pipeline and then the backend context.
	// Resources still held by providers are not touched; their owners release them first.
	// Calling Release again is a no-op.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer bound to a surface.
// With BackendTypeAuto the backend is chosen from the surface's capabilities.
//
// Parameters:
//   - backendType: the type of rendering backend to use
//   - surface: the surface to render into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the new Renderer
//   - error: a SurfaceUnavailableError if the surface is missing, unsupported by the backend,
//     or the render context cannot be acquired
func NewRenderer(backendType RendererBackendType, surface Surface, options ...RendererBuilderOption) (Renderer, error) {
	if surface == nil {
		return nil, &common.SurfaceUnavailableError{Reason: "no mount surface"}
	}

	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		ledger:        newLedger(),
		rasterWorkers: runtime.NumCPU(),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if backendType == BackendTypeAuto {
		switch surface.(type) {
		case WGPUSurface:
			backendType = BackendTypeWGPU
		case RasterSurface:
			backendType = BackendTypeRaster
		}
	}
	r.backendType = backendType

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		ws, ok := surface.(WGPUSurface)
		if !ok {
			return nil, &common.SurfaceUnavailableError{Reason: "surface cannot host a WebGPU swapchain"}
		}
		backend, err := newWGPURendererBackend(ws.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.ledger)
		if err != nil {
			return nil, err
		}
		r.backend = backend
	case BackendTypeRaster:
		rs, ok := surface.(RasterSurface)
		if !ok {
			return nil, &common.SurfaceUnavailableError{Reason: "surface cannot accept raster frames"}
		}
		r.backend = newRasterRendererBackend(rs, r.rasterWorkers, r.bloomRadius, r.bloomStrength, r.ledger)
	default:
		return nil, &common.SurfaceUnavailableError{Reason: fmt.Sprintf("no backend for %s surface", backendType)}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetClearColor(r.clearColor)

	if err := r.backend.ConfigureSurface(surface.Width(), surface.Height()); err != nil {
		r.backend.Release()
		return nil, &common.SurfaceUnavailableError{Reason: "configure surface", Err: err}
	}
	return r, nil
}

func (r *renderer) BackendType() RendererBackendType {
	return r.backendType
}

func (r *renderer) Resize(width, height int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return nil
	}
	return r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SetClearColor(c common.Color) {
	r.backend.SetClearColor(c)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("register pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, vertexCount, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	return r.backend.InitBindGroup(provider, descriptor)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, instanceCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	return r.backend.DrawCall(p, meshProvider, instanceCount, bindGroups)
}

func (r *renderer) EndFrame() error {
	return r.backend.EndFrame()
}

func (r *renderer) Present() error {
	return r.backend.Present()
}

func (r *renderer) Stats() LedgerStats {
	return r.ledger.stats()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.released {
		return
	}
	r.released = true

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
