package renderer

import "github.com/Carmen-Shannon/oxy-backdrop/common"

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the WebGPU backend.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background color each frame starts from.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color
func WithClearColor(c common.Color) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = c
	}
}

// WithRasterWorkers sets how many horizontal bands the raster backend renders in parallel.
// Defaults to runtime.NumCPU().
//
// Parameters:
//   - n: the worker count, at least 1
//
// Returns:
//   - RendererBuilderOption: a function that applies the worker count
func WithRasterWorkers(n int) RendererBuilderOption {
	return func(r *renderer) {
		if n > 0 {
			r.rasterWorkers = n
		}
	}
}

// WithBloom enables the raster backend's glow post-pass: the frame is blurred with a Gaussian of
// the given radius and added back at the given strength.
//
// Parameters:
//   - radius: blur radius in pixels
//   - strength: blend weight in [0,1]; 0 disables the pass
//
// Returns:
//   - RendererBuilderOption: a function that applies the bloom settings
func WithBloom(radius, strength float64) RendererBuilderOption {
	return func(r *renderer) {
		r.bloomRadius = radius
		r.bloomStrength = strength
	}
}
