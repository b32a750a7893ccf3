package renderer

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/cogentcore/webgpu/wgpu"
)

// rasterBuffer is the CPU stand-in for a GPU buffer.
type rasterBuffer struct {
	data []byte
}

func (b *rasterBuffer) Release() {
	b.data = nil
}

// rasterPipeline marks a pipeline as registered with the raster backend.
type rasterPipeline struct {
	program pipeline.VertexProgram
}

func (p *rasterPipeline) Release() {
	p.program = nil
}

// rasterRendererBackend draws on the CPU into a float RGB accumulation buffer. Rows are split
// into bands that are rasterized in parallel on a worker pool, then the frame is quantized,
// optionally bloomed and handed to the RasterSurface.
type rasterRendererBackend struct {
	mu     *sync.Mutex
	ledger *ledger

	surface RasterSurface
	pool    worker.DynamicWorkerPool
	poolRes *trackedResource
	workers int

	bloomRadius   float64
	bloomStrength float64

	width, height int
	color         []float32
	depth         []float32
	frame         *image.RGBA
	output        *image.RGBA
	clearColor    common.Color

	inFrame  bool
	finished bool
	nextTask int
}

var _ RendererBackend = &rasterRendererBackend{}

func newRasterRendererBackend(surface RasterSurface, workers int, bloomRadius, bloomStrength float64, l *ledger) *rasterRendererBackend {
	if workers < 1 {
		workers = 1
	}
	pool := worker.NewDynamicWorkerPool(workers, workers*4, 1*time.Second)
	return &rasterRendererBackend{
		mu:            &sync.Mutex{},
		ledger:        l,
		surface:       surface,
		pool:          pool,
		poolRes:       l.track(ResourceKindContext, "raster worker pool", releaseFunc(pool.Stop)),
		workers:       workers,
		bloomRadius:   bloomRadius,
		bloomStrength: bloomStrength,
	}
}

func (b *rasterRendererBackend) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return &common.ConfigurationError{Field: "surface", Reason: fmt.Sprintf("size %dx%d", width, height)}
	}
	b.width, b.height = width, height
	b.color = make([]float32, width*height*3)
	b.depth = make([]float32, width*height)
	b.frame = image.NewRGBA(image.Rect(0, 0, width, height))
	b.output = nil
	return nil
}

func (b *rasterRendererBackend) SetPresentMode(PresentMode) {}

func (b *rasterRendererBackend) SetClearColor(c common.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = c
}

func (b *rasterRendererBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	if p.Shader(shader.ShaderTypeVertex) == nil {
		return errors.New("raster pipelines need a vertex shader for their vertex layout")
	}
	if p.VertexProgram() == nil {
		return fmt.Errorf("pipeline %q has no CPU vertex program", p.PipelineKey())
	}
	p.SetRenderPipeline(b.ledger.track(ResourceKindPipeline, p.PipelineKey(), &rasterPipeline{program: p.VertexProgram()}))
	return nil
}

func (b *rasterRendererBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error {
	if len(vertexData) > 0 {
		buf := &rasterBuffer{data: append([]byte(nil), vertexData...)}
		provider.SetVertexBuffer(b.ledger.track(ResourceKindBuffer, provider.Label()+" Vertex Buffer", buf))
	}
	if len(indexData) > 0 {
		buf := &rasterBuffer{data: append([]byte(nil), indexData...)}
		provider.SetIndexBuffer(b.ledger.track(ResourceKindBuffer, provider.Label()+" Index Buffer", buf))
	}
	provider.SetVertexCount(vertexCount)
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *rasterRendererBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if len(descriptor.Entries) == 0 {
		return nil
	}
	for _, entry := range descriptor.Entries {
		if entry.Buffer.Type == wgpu.BufferBindingTypeUndefined {
			return fmt.Errorf("binding %d: only buffer bindings are supported", entry.Binding)
		}
		if provider.Buffer(int(entry.Binding)) != nil {
			continue
		}
		buf := &rasterBuffer{data: make([]byte, entry.Buffer.MinBindingSize)}
		provider.SetBuffer(int(entry.Binding), b.ledger.track(ResourceKindBuffer, provider.Label()+" Buffer", buf))
	}
	provider.SetBindGroup(b.ledger.track(ResourceKindBindGroup, provider.Label()+" Bind Group", releaseFunc(func() {})))
	return nil
}

func (b *rasterRendererBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf, ok := handleOf[*rasterBuffer](w.Provider.Buffer(w.Binding))
		if !ok {
			continue
		}
		end := int(w.Offset) + len(w.Data)
		if end > len(buf.data) {
			grown := make([]byte, end)
			copy(grown, buf.data)
			buf.data = grown
		}
		copy(buf.data[w.Offset:], w.Data)
	}
}

func (b *rasterRendererBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.color == nil {
		return errors.New("surface not configured")
	}
	if b.inFrame {
		return errors.New("previous frame not ended")
	}
	b.inFrame = true
	b.finished = false

	b.runBands(func(y0, y1 int) {
		for i := y0 * b.width; i < y1*b.width; i++ {
			b.color[i*3] = b.clearColor[0]
			b.color[i*3+1] = b.clearColor[1]
			b.color[i*3+2] = b.clearColor[2]
			b.depth[i] = 1
		}
	})
	return nil
}

func (b *rasterRendererBackend) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	instanceCount uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return errors.New("draw call outside of a frame")
	}
	rp, ok := handleOf[*rasterPipeline](p.Pipeline())
	if !ok || rp.program == nil {
		return fmt.Errorf("pipeline %q is not registered", p.PipelineKey())
	}
	vertices, ok := handleOf[*rasterBuffer](meshProvider.VertexBuffer())
	if !ok {
		return fmt.Errorf("%s has no vertex buffer", meshProvider.Label())
	}
	stride := int(p.Shader(shader.ShaderTypeVertex).VertexStride())
	if stride == 0 {
		return fmt.Errorf("pipeline %q has no vertex layout", p.PipelineKey())
	}

	groups := make([][]byte, len(bindGroups))
	for i, bg := range bindGroups {
		if _, live := handleOf[releaseFunc](bg.BindGroup()); !live {
			return fmt.Errorf("%s has no bind group", bg.Label())
		}
		buf, ok := handleOf[*rasterBuffer](bg.Buffer(0))
		if !ok {
			return fmt.Errorf("%s has no uniform buffer", bg.Label())
		}
		groups[i] = buf.data
	}

	count := min(meshProvider.VertexCount(), len(vertices.data)/stride)
	shaded := make([]screenVertex, count)
	for i := range count {
		out := rp.program(vertices.data[i*stride:(i+1)*stride], groups)
		shaded[i] = b.toScreen(out)
	}

	var indices []uint32
	if ib, ok := handleOf[*rasterBuffer](meshProvider.IndexBuffer()); ok && !p.Sprites() {
		indices = decodeIndices(ib.data, meshProvider.IndexCount())
	}

	prims := assemble(p, shaded, indices)
	if len(prims) == 0 {
		return nil
	}

	st := newRasterState(p)
	b.runBands(func(y0, y1 int) {
		for i := range prims {
			b.rasterize(&prims[i], st, y0, y1)
		}
	})
	return nil
}

func (b *rasterRendererBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.inFrame {
		return nil
	}
	b.inFrame = false

	b.runBands(func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := b.frame.Pix[y*b.frame.Stride:]
			for x := range b.width {
				i := (y*b.width + x) * 3
				row[x*4] = quantize(b.color[i])
				row[x*4+1] = quantize(b.color[i+1])
				row[x*4+2] = quantize(b.color[i+2])
				row[x*4+3] = 0xff
			}
		}
	})

	b.output = b.frame
	if b.bloomStrength > 0 && b.bloomRadius > 0 {
		glow := blend.Add(b.frame, blur.Gaussian(b.frame, b.bloomRadius))
		b.output = blend.Opacity(b.frame, glow, b.bloomStrength)
	}
	b.finished = true
	return nil
}

func (b *rasterRendererBackend) Present() error {
	b.mu.Lock()
	out := b.output
	ready := b.finished
	b.finished = false
	b.mu.Unlock()

	if !ready || out == nil {
		return nil
	}
	return b.surface.Present(out)
}

func (b *rasterRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.poolRes != nil {
		b.poolRes.Release()
		b.poolRes = nil
	}
	b.color = nil
	b.depth = nil
	b.frame = nil
	b.output = nil
}

// runBands splits the rows into one band per worker and blocks until every band is done.
// Caller must hold the mutex.
func (b *rasterRendererBackend) runBands(fn func(y0, y1 int)) {
	bands := min(b.workers, b.height)
	if bands <= 1 {
		fn(0, b.height)
		return
	}

	var wg sync.WaitGroup
	rows := (b.height + bands - 1) / bands
	for y0 := 0; y0 < b.height; y0 += rows {
		y1 := min(y0+rows, b.height)
		wg.Add(1)
		id := b.nextTask
		b.nextTask++
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(y0, y1)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

func quantize(v float32) uint8 {
	return uint8(common.Clamp(v, 0, 1)*255 + 0.5)
}
