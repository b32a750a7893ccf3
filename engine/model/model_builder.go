package model

import "github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithWireframe is an option builder that packs the mesh's unique edges as a line list
// instead of its triangles.
//
// Parameters:
//   - wireframe: true for a line-list model
//
// Returns:
//   - ModelBuilderOption: a function that applies the wireframe option to a model
func WithWireframe(wireframe bool) ModelBuilderOption {
	return func(m *model) {
		m.wireframe = wireframe
	}
}

// WithMeshProvider is an option builder that sets the BindGroupProvider for mesh GPU resources.
// When not set, NewModel creates one labeled after the model.
//
// Parameters:
//   - provider: the BindGroupProvider that will hold the vertex/index buffers
//
// Returns:
//   - ModelBuilderOption: a function that applies the mesh provider option to a model
func WithMeshProvider(provider bind_group_provider.BindGroupProvider) ModelBuilderOption {
	return func(m *model) {
		m.meshProvider = provider
	}
}
