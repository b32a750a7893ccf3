package scene

import (
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a SceneManager.
// Use the With* functions to create options.
type SceneBuilderOption func(s *sceneManager)

// WithBackend selects the renderer backend Mount creates. Defaults to BackendTypeAuto.
//
// Parameters:
//   - backend: the backend type
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackend(backend renderer.RendererBackendType) SceneBuilderOption {
	return func(s *sceneManager) {
		s.backend = backend
	}
}

// WithRendererOptions appends options passed to renderer.NewRenderer on Mount.
// They are applied after the clear color taken from the config, so they may override it.
//
// Parameters:
//   - options: renderer options
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) SceneBuilderOption {
	return func(s *sceneManager) {
		s.rendererOpts = append(s.rendererOpts, options...)
	}
}

// WithErrorHandler sets a callback invoked when a frame fails, just before the scene disposes itself.
//
// Parameters:
//   - fn: the handler
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithErrorHandler(fn func(err error)) SceneBuilderOption {
	return func(s *sceneManager) {
		s.onError = fn
	}
}
