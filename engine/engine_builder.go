package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
	}
}

// WithSceneOptions sets the options passed to every scene the engine mounts.
//
// Parameters:
//   - options: scene options such as scene.WithBackend
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSceneOptions(options ...scene.SceneBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.sceneOptions = append(e.sceneOptions, options...)
	}
}

// WithMountCallback registers a function called after each successful Mount, e.g. to retitle a window.
//
// Parameters:
//   - fn: the callback, receiving the newly mounted scene
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMountCallback(fn func(s scene.SceneManager)) EngineBuilderOption {
	return func(e *engine) {
		e.onMount = fn
	}
}
