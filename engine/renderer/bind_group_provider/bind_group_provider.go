package bind_group_provider

// Resource is a backend-allocated object that must be released exactly once.
// The Renderer hands out Resources wrapped so that every release is recorded in its ledger.
type Resource interface {
	Release()
}

// bindGroupProvider is the unexported implementation of BindGroupProvider.
type bindGroupProvider struct {
	// label is a debug label added for convenience.
	label string

	// The following fields are backend allocated resources and must be released when no longer needed.
	// They are populated by the Renderer during initialization, not by user-creation.

	// bindGroup is the bind group created for this provider, or nil if not initialized with the Renderer.
	bindGroup Resource
	// buffers holds the uniform/storage buffers created for this provider, keyed by binding index.
	buffers map[int]Resource

	// vertexBuffer is the vertex buffer created for this provider, or nil if not initialized with the Renderer.
	vertexBuffer Resource
	// indexBuffer is the index buffer created for this provider, or nil for non-indexed draws.
	indexBuffer Resource
	// vertexCount is the number of vertex records, used for non-indexed and sprite draws.
	vertexCount int
	// indexCount is the number of indices for indexed draw calls.
	indexCount int
}

// BindGroupProvider defines the interface for components that require GPU bind group resources.
// Entities (particle fields, wave planes, bodies, lights, the camera) hold BindGroupProviders to
// describe their binding requirements. The Renderer uses these providers to create, update and
// draw with backend resources.
//
// Usage pattern:
//  1. Entity creates a BindGroupProvider with a debug label
//  2. Renderer.InitBindGroup(provider, descriptor) creates buffers and the bind group
//  3. Renderer.InitMeshBuffers(provider, ...) uploads vertex/index data for mesh providers
//  4. Entity stages BufferWrites every frame; Renderer.WriteBuffers applies them
//  5. Entity calls Release on teardown; a second Release is a no-op
type BindGroupProvider interface {
	// Release releases every resource held by this provider and forgets it,
	// so calling Release again performs no further releases.
	Release()

	// Label returns the debug label for this provider.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// BindGroup returns the created bind group for shader binding.
	// Returns nil if resources have not been initialized.
	//
	// Returns:
	//   - Resource: the bind group or nil
	BindGroup() Resource

	// Buffer returns the buffer for a binding index.
	// Returns nil if resources have not been initialized.
	//
	// Parameters:
	//   - binding: the binding index
	//
	// Returns:
	//   - Resource: the buffer or nil
	Buffer(binding int) Resource

	// Buffers returns all buffers associated with this provider, keyed by binding index.
	//
	// Returns:
	//   - map[int]Resource: the buffers keyed by binding index
	Buffers() map[int]Resource

	// VertexBuffer returns the vertex buffer, or nil if not initialized.
	//
	// Returns:
	//   - Resource: the vertex buffer or nil
	VertexBuffer() Resource

	// IndexBuffer returns the index buffer, or nil for non-indexed meshes.
	//
	// Returns:
	//   - Resource: the index buffer or nil
	IndexBuffer() Resource

	// VertexCount returns the number of vertex records in the vertex buffer.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices for draw calls.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Initialized reports whether the provider currently holds any backend resource.
	//
	// Returns:
	//   - bool: true if a bind group, buffer or mesh buffer is held
	Initialized() bool

	// SetBindGroup sets the bind group after initialization.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - bg: the created bind group
	SetBindGroup(bg Resource)

	// SetBuffer sets the buffer for a binding index after initialization.
	// Called by Renderer.InitBindGroup().
	//
	// Parameters:
	//   - binding: the binding index
	//   - buf: the created buffer
	SetBuffer(binding int, buf Resource)

	// SetVertexBuffer stores the vertex buffer after creation by InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the created vertex buffer
	SetVertexBuffer(buf Resource)

	// SetIndexBuffer stores the index buffer after creation by InitMeshBuffers.
	//
	// Parameters:
	//   - buf: the created index buffer
	SetIndexBuffer(buf Resource)

	// SetVertexCount sets the number of vertex records.
	//
	// Parameters:
	//   - count: the vertex count
	SetVertexCount(count int)

	// SetIndexCount sets the number of indices for draw calls.
	//
	// Parameters:
	//   - count: the index count
	SetIndexCount(count int)
}

// Compile-time check that bindGroupProvider implements BindGroupProvider
var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates a new BindGroupProvider with the provided options.
//
// Parameters:
//   - label: a debug label used in backend object names and logs
//   - options: a variadic list of options to configure the provider
//
// Returns:
//   - BindGroupProvider: a new instance of BindGroupProvider configured with the provided options
func NewBindGroupProvider(label string, options ...BindGroupProviderOption) BindGroupProvider {
	p := &bindGroupProvider{
		label:   label,
		buffers: make(map[int]Resource),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() Resource {
	return p.bindGroup
}

func (p *bindGroupProvider) Buffer(binding int) Resource {
	return p.buffers[binding]
}

func (p *bindGroupProvider) Buffers() map[int]Resource {
	return p.buffers
}

func (p *bindGroupProvider) VertexBuffer() Resource {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() Resource {
	return p.indexBuffer
}

func (p *bindGroupProvider) VertexCount() int {
	return p.vertexCount
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) Initialized() bool {
	return p.bindGroup != nil || len(p.buffers) > 0 || p.vertexBuffer != nil || p.indexBuffer != nil
}

func (p *bindGroupProvider) SetBindGroup(bg Resource) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetBuffer(binding int, buf Resource) {
	if p.buffers == nil {
		p.buffers = make(map[int]Resource)
	}
	p.buffers[binding] = buf
}

func (p *bindGroupProvider) SetVertexBuffer(buf Resource) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf Resource) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetVertexCount(count int) {
	p.vertexCount = count
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	// The bind group references the buffers, so it goes first.
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	for i, buf := range p.buffers {
		if buf != nil {
			buf.Release()
		}
		delete(p.buffers, i)
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
	p.vertexCount = 0
	p.indexCount = 0
}

// BufferWrite describes one write into a provider's buffer at a byte offset.
// Writes are staged by entities during a tick and applied by Renderer.WriteBuffers before the draw calls.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// UniformWrite returns a BufferWrite that replaces the whole uniform at binding 0 of a provider.
//
// Parameters:
//   - provider: the provider that owns the uniform buffer
//   - data: the marshaled uniform
//
// Returns:
//   - BufferWrite: the staged write
func UniformWrite(provider BindGroupProvider, data []byte) BufferWrite {
	return BufferWrite{Provider: provider, Binding: 0, Data: data}
}
