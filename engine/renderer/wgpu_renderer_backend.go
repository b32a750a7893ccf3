package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

type wgpuRendererBackend struct {
	mu     *sync.Mutex
	ledger *ledger

	device   *wgpu.Device
	queue    *wgpu.Queue
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	// context holds the tracked instance, surface, adapter, device and queue in release order.
	context []*trackedResource

	surfaceFormat        wgpu.TextureFormat
	targets              []*trackedResource
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  common.Color

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackend{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount, l *ledger) (*wgpuRendererBackend, error) {
	if surfaceDescriptor == nil {
		return nil, &common.SurfaceUnavailableError{Reason: "surface has no native window"}
	}
	runtime.LockOSThread()

	b := &wgpuRendererBackend{
		mu:          &sync.Mutex{},
		ledger:      l,
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
	}

	b.instance = wgpu.CreateInstance(nil)
	b.context = append(b.context, l.track(ResourceKindContext, "instance", b.instance))

	b.surface = b.instance.CreateSurface(surfaceDescriptor)
	if b.surface == nil {
		b.Release()
		return nil, &common.SurfaceUnavailableError{Reason: "create surface"}
	}
	b.context = append(b.context, l.track(ResourceKindContext, "surface", b.surface))

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, &common.SurfaceUnavailableError{Reason: "no graphics adapter", Err: err}
	}
	b.adapter = a
	b.context = append(b.context, l.track(ResourceKindContext, "adapter", a))

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Backdrop Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, &common.SurfaceUnavailableError{Reason: "no graphics device", Err: err}
	}
	b.device = d
	b.context = append(b.context, l.track(ResourceKindContext, "device", d))

	b.queue = d.GetQueue()
	b.context = append(b.context, l.track(ResourceKindContext, "queue", b.queue))

	return b, nil
}

func (b *wgpuRendererBackend) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return &common.ConfigurationError{Field: "surface", Reason: fmt.Sprintf("size %dx%d", width, height)}
	}

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 || len(capabilities.AlphaModes) == 0 {
		return errors.New("surface reports no supported formats")
	}
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseTargets()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the swapchain view is the ResolveTarget.
		view, err := b.createTarget("MSAA Texture", width, height, count, b.surfaceFormat)
		if err != nil {
			return err
		}
		b.msaaTextureView = view
	} else {
		b.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthView, err := b.createTarget("Depth Texture", width, height, count, wgpu.TextureFormatDepth24Plus)
	if err != nil {
		return err
	}
	b.depthTextureView = depthView

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard
	}
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          b.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue: wgpu.Color{
					R: float64(b.clearColor[0]),
					G: float64(b.clearColor[1]),
					B: float64(b.clearColor[2]),
					A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

// createTarget creates a render attachment texture and view, both tracked as render targets.
// Caller must hold the mutex.
func (b *wgpuRendererBackend) createTarget(label string, width, height int, samples uint32, format wgpu.TextureFormat) (*wgpu.TextureView, error) {
	texture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("create %s view: %w", label, err)
	}
	// Views go first so they are released before their texture.
	b.targets = append(b.targets,
		b.ledger.track(ResourceKindTexture, label+" View", view),
		b.ledger.track(ResourceKindTexture, label, texture),
	)
	return view, nil
}

// releaseTargets frees the MSAA and depth attachments. Caller must hold the mutex.
func (b *wgpuRendererBackend) releaseTargets() {
	for _, t := range b.targets {
		t.Release()
	}
	b.targets = nil
	b.msaaTextureView = nil
	b.depthTextureView = nil
}

func (b *wgpuRendererBackend) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

func (b *wgpuRendererBackend) SetClearColor(c common.Color) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = c
	if b.renderPassDescriptor != nil {
		b.renderPassDescriptor.ColorAttachments[0].ClearValue = wgpu.Color{
			R: float64(c[0]), G: float64(c[1]), B: float64(c[2]), A: 1.0,
		}
	}
}

func (b *wgpuRendererBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	// Everything created here is owned by the pipeline; on failure it is released before returning.
	var owned []bind_group_provider.Resource
	fail := func(err error) error {
		for i := len(owned) - 1; i >= 0; i-- {
			owned[i].Release()
		}
		return err
	}

	vs, err := b.device.CreateShaderModule(vertexShader.Module())
	if err != nil {
		return fail(err)
	}
	owned = append(owned, b.ledger.track(ResourceKindShaderModule, vertexShader.Key(), vs))

	fs, err := b.device.CreateShaderModule(fragmentShader.Module())
	if err != nil {
		return fail(err)
	}
	owned = append(owned, b.ledger.track(ResourceKindShaderModule, fragmentShader.Key(), fs))

	merged := mergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	maxGroup := -1
	for g := range merged {
		if g > maxGroup {
			maxGroup = g
		}
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := 0; g <= maxGroup; g++ {
		desc, ok := merged[g]
		if !ok {
			return fail(fmt.Errorf("bind group %d has no layout", g))
		}
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return fail(fmt.Errorf("failed to create bind group layout for group %d: %w", g, layoutErr))
		}
		owned = append(owned, b.ledger.track(ResourceKindLayout, desc.Label, layout))
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return fail(err)
	}
	owned = append(owned, b.ledger.track(ResourceKindLayout, p.PipelineKey()+" Layout", pipelineLayout))

	target := wgpu.ColorTargetState{
		Format:    b.surfaceFormat,
		WriteMask: p.WriteMask(),
	}
	if p.BlendEnabled() {
		target.Blend = p.BlendState()
	}

	depthCompare := wgpu.CompareFunctionLess
	if !p.DepthTestEnabled() {
		depthCompare = wgpu.CompareFunctionAlways
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexShader.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fail(err)
	}

	p.SetRenderPipeline(b.ledger.track(ResourceKindPipeline, p.PipelineKey(), created), owned...)
	return nil
}

func (b *wgpuRendererBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            provider.Label() + " Vertex Buffer",
			Size:             uint64(len(vertexData)),
			Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		provider.SetVertexBuffer(b.ledger.track(ResourceKindBuffer, provider.Label()+" Vertex Buffer", buf))
		b.queue.WriteBuffer(buf, 0, vertexData)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label:            provider.Label() + " Index Buffer",
			Size:             uint64(len(indexData)),
			Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			MappedAtCreation: false,
		})
		if err != nil {
			return err
		}
		provider.SetIndexBuffer(b.ledger.track(ResourceKindBuffer, provider.Label()+" Index Buffer", buf))
		b.queue.WriteBuffer(buf, 0, indexData)
	}

	provider.SetVertexCount(vertexCount)
	provider.SetIndexCount(indexCount)
	return nil
}

func (b *wgpuRendererBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	// The layout is only needed to create the bind group; pipelines own their own copies.
	layout, err := b.device.CreateBindGroupLayout(&descriptor)
	if err != nil {
		return err
	}
	defer layout.Release()

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		var usage wgpu.BufferUsage
		switch entry.Buffer.Type {
		case wgpu.BufferBindingTypeUniform:
			usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
		case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
			usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
		default:
			return fmt.Errorf("binding %d: only buffer bindings are supported", binding)
		}

		buf, ok := handleOf[*wgpu.Buffer](provider.Buffer(binding))
		if !ok {
			created, bufErr := b.device.CreateBuffer(&wgpu.BufferDescriptor{
				Label: provider.Label() + " Buffer",
				Size:  entry.Buffer.MinBindingSize,
				Usage: usage,
			})
			if bufErr != nil {
				return bufErr
			}
			provider.SetBuffer(binding, b.ledger.track(ResourceKindBuffer, provider.Label()+" Buffer", created))
			buf = created
		}
		bindGroupEntries[i] = wgpu.BindGroupEntry{
			Binding: entry.Binding,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(b.ledger.track(ResourceKindBindGroup, provider.Label()+" Bind Group", bindGroup))
	return nil
}

func (b *wgpuRendererBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf, ok := handleOf[*wgpu.Buffer](w.Provider.Buffer(w.Binding))
		if !ok {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackend) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A surface image still held from the previous frame would make wgpu-native reject the acquire.
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	if b.sampleCount > 1 {
		b.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		b.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view

	return nil
}

func (b *wgpuRendererBackend) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	instanceCount uint32,
	bindGroups []bind_group_provider.BindGroupProvider,
) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("draw call outside of a frame")
	}
	renderPipeline, ok := handleOf[*wgpu.RenderPipeline](p.Pipeline())
	if !ok {
		return fmt.Errorf("pipeline %q is not registered", p.PipelineKey())
	}
	vertexBuffer, ok := handleOf[*wgpu.Buffer](meshProvider.VertexBuffer())
	if !ok {
		return fmt.Errorf("%s has no vertex buffer", meshProvider.Label())
	}

	b.framePass.SetPipeline(renderPipeline)
	for i, bg := range bindGroups {
		group, ok := handleOf[*wgpu.BindGroup](bg.BindGroup())
		if !ok {
			return fmt.Errorf("%s has no bind group", bg.Label())
		}
		b.framePass.SetBindGroup(uint32(i), group, nil)
	}
	b.framePass.SetVertexBuffer(0, vertexBuffer, 0, wgpu.WholeSize)

	switch {
	case p.Sprites():
		// Six vertices expand each instance-rate record into a quad.
		b.framePass.Draw(6, uint32(meshProvider.VertexCount()), 0, 0)
	case meshProvider.IndexBuffer() != nil:
		indexBuffer, ok := handleOf[*wgpu.Buffer](meshProvider.IndexBuffer())
		if !ok {
			return fmt.Errorf("%s index buffer was released", meshProvider.Label())
		}
		b.framePass.SetIndexBuffer(indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		b.framePass.DrawIndexed(uint32(meshProvider.IndexCount()), instanceCount, 0, 0, 0)
	default:
		b.framePass.Draw(uint32(meshProvider.VertexCount()), instanceCount, 0, 0)
	}
	return nil
}

func (b *wgpuRendererBackend) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return nil
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrameSurface()
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	return nil
}

func (b *wgpuRendererBackend) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return nil
	}
	b.surface.Present()
	b.releaseFrameSurface()
	return nil
}

// releaseFrameSurface drops the swapchain image acquired in BeginFrame. Caller must hold the mutex.
func (b *wgpuRendererBackend) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackend) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass != nil {
		b.framePass.End()
		b.framePass.Release()
		b.framePass = nil
	}
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	b.releaseFrameSurface()
	b.releaseTargets()

	// Queue, device, adapter, surface, instance: reverse acquisition order.
	for i := len(b.context) - 1; i >= 0; i-- {
		b.context[i].Release()
	}
	b.context = nil
	b.device = nil
	b.queue = nil
	b.adapter = nil
	b.surface = nil
	b.instance = nil
}

// mergeBindGroupLayouts combines the vertex and fragment layouts of each group,
// OR-ing the visibility of bindings that both stages declare.
func mergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	for g, vDesc := range vertexLayouts {
		merged[g] = vDesc
	}
	for g, fDesc := range fragmentLayouts {
		vDesc, ok := merged[g]
		if !ok {
			merged[g] = fDesc
			continue
		}

		entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
		for _, e := range vDesc.Entries {
			entryMap[e.Binding] = e
		}
		for _, e := range fDesc.Entries {
			if existing, ok := entryMap[e.Binding]; ok {
				existing.Visibility |= e.Visibility
				entryMap[e.Binding] = existing
			} else {
				entryMap[e.Binding] = e
			}
		}

		entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
		for _, e := range entryMap {
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Binding < entries[j].Binding
		})

		merged[g] = wgpu.BindGroupLayoutDescriptor{
			Label:   vDesc.Label,
			Entries: entries,
		}
	}

	return merged
}
