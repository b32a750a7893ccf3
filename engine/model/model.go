package model

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

// model is the implementation of the Model interface.
type model struct {
	name                  string
	wireframe             bool
	meshProvider          bind_group_provider.BindGroupProvider
	boundingRadius        float32
	vertexData, indexData []byte
	vertexCount           int
	indexCount            int
}

// Model is a GPU-ready mesh shared by every body of a group.
// Solid models hold GPULitVertex records and triangle indices; wireframe models hold
// GPULineVertex records and line-list indices over the mesh's unique edges.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Wireframe reports whether the model draws edges instead of faces.
	//
	// Returns:
	//   - bool: true for line-list models
	Wireframe() bool

	// MeshProvider retrieves the BindGroupProvider holding the vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexData returns the packed vertex records.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// IndexData returns the packed uint32 indices.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// VertexCount returns the number of vertex records.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of indices.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// BoundingRadius returns the largest vertex distance from the model origin.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32

	// Init uploads the vertex and index data through the renderer.
	//
	// Parameters:
	//   - r: the renderer to allocate buffers with
	//
	// Returns:
	//   - error: an error if buffer creation fails
	Init(r renderer.Renderer) error

	// Release frees the mesh buffers. Calling it again is a no-op.
	Release()
}

var _ Model = &model{}

// NewModel packs a mesh into GPU vertex and index data.
//
// Parameters:
//   - mesh: the source geometry
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(mesh *Mesh, options ...ModelBuilderOption) Model {
	m := &model{
		name:           mesh.Name,
		boundingRadius: mesh.BoundingRadius(),
	}
	for _, opt := range options {
		opt(m)
	}

	if m.wireframe {
		edges := ExtractEdges(mesh)
		m.vertexData = LineVertexData(edges)
		m.indexData = IndexData(edges.Indices)
		m.vertexCount = len(edges.Positions)
		m.indexCount = len(edges.Indices)
	} else {
		m.vertexData = LitVertexData(mesh)
		m.indexData = IndexData(mesh.Indices)
		m.vertexCount = len(mesh.Positions)
		m.indexCount = len(mesh.Indices)
	}

	if m.meshProvider == nil {
		m.meshProvider = bind_group_provider.NewBindGroupProvider(m.name + " Mesh")
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Wireframe() bool {
	return m.wireframe
}

func (m *model) MeshProvider() bind_group_provider.BindGroupProvider {
	return m.meshProvider
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) IndexData() []byte {
	return m.indexData
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) IndexCount() int {
	return m.indexCount
}

func (m *model) BoundingRadius() float32 {
	return m.boundingRadius
}

func (m *model) Init(r renderer.Renderer) error {
	return r.InitMeshBuffers(m.meshProvider, m.vertexData, m.indexData, m.vertexCount, m.indexCount)
}

func (m *model) Release() {
	m.meshProvider.Release()
}
