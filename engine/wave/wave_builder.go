package wave

import "github.com/go-gl/mathgl/mgl32"

// PlaneBuilderOption is a functional option for configuring a Plane via Generate.
type PlaneBuilderOption func(*planeImpl)

// WithLabel sets the debug label used for the plane's GPU resources.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - PlaneBuilderOption: a function that applies the label option
func WithLabel(label string) PlaneBuilderOption {
	return func(p *planeImpl) {
		p.label = label
	}
}

// WithPosition places the plane in the scene.
//
// Parameters:
//   - position: world-space translation
//
// Returns:
//   - PlaneBuilderOption: a function that applies the position option
func WithPosition(position mgl32.Vec3) PlaneBuilderOption {
	return func(p *planeImpl) {
		p.position = position
	}
}

// WithTimeScale sets the factor applied to elapsed time before shading. The default is 1.
//
// Parameters:
//   - scale: the time scale
//
// Returns:
//   - PlaneBuilderOption: a function that applies the time scale option
func WithTimeScale(scale float32) PlaneBuilderOption {
	return func(p *planeImpl) {
		p.timeScale = scale
	}
}

// WithAmplitude sets the height field multiplier. The default is 1.2.
//
// Parameters:
//   - amplitude: the multiplier
//
// Returns:
//   - PlaneBuilderOption: a function that applies the amplitude option
func WithAmplitude(amplitude float32) PlaneBuilderOption {
	return func(p *planeImpl) {
		p.amplitude = amplitude
	}
}

// WithOpacity sets the surface alpha. The default is 0.5.
//
// Parameters:
//   - opacity: alpha in [0, 1]
//
// Returns:
//   - PlaneBuilderOption: a function that applies the opacity option
func WithOpacity(opacity float32) PlaneBuilderOption {
	return func(p *planeImpl) {
		p.opacity = opacity
	}
}

// WithGlow sets the brightness of the center band. The default is 0.25.
//
// Parameters:
//   - glow: the band weight
//
// Returns:
//   - PlaneBuilderOption: a function that applies the glow option
func WithGlow(glow float32) PlaneBuilderOption {
	return func(p *planeImpl) {
		p.glow = glow
	}
}
