package particle

import "github.com/go-gl/mathgl/mgl32"

// FieldBuilderOption is a functional option for configuring a Field via Generate.
type FieldBuilderOption func(*fieldImpl)

// WithLabel sets the debug label used for the field's GPU resources.
//
// Parameters:
//   - label: the label
//
// Returns:
//   - FieldBuilderOption: a function that applies the label option
func WithLabel(label string) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.label = label
	}
}

// WithSeed sets the seed of the generator positions, colors and sizes are drawn from.
// Equal seeds and parameters generate identical fields.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - FieldBuilderOption: a function that applies the seed option
func WithSeed(seed int64) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.seed = seed
	}
}

// WithExtent sets the per-axis half extents of a uniform-cube field. The default is 100 on every axis.
//
// Parameters:
//   - extent: half extents
//
// Returns:
//   - FieldBuilderOption: a function that applies the extent option
func WithExtent(extent mgl32.Vec3) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.extent = extent
	}
}

// WithCenter offsets every generated position.
//
// Parameters:
//   - center: the distribution center
//
// Returns:
//   - FieldBuilderOption: a function that applies the center option
func WithCenter(center mgl32.Vec3) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.center = center
	}
}

// WithShell sets the radius band of a spherical-shell field. The default is [50, 80).
//
// Parameters:
//   - inner: inclusive inner radius
//   - outer: exclusive outer radius
//
// Returns:
//   - FieldBuilderOption: a function that applies the shell option
func WithShell(inner, outer float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.innerRadius = inner
		f.outerRadius = outer
	}
}

// WithSizeRange sets the range point sizes are drawn from. The default is [1, 4);
// equal bounds produce a constant size.
//
// Parameters:
//   - lo: inclusive minimum, must be positive
//   - hi: exclusive maximum, must not be below lo
//
// Returns:
//   - FieldBuilderOption: a function that applies the size option
func WithSizeRange(lo, hi float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.minSize = lo
		f.maxSize = hi
	}
}

// WithSizeScale sets the perspective size factor: a point of size s at view depth d covers
// s·scale/d pixels on a ReferenceHeight-tall viewport. The default is 300.
//
// Parameters:
//   - scale: the size factor
//
// Returns:
//   - FieldBuilderOption: a function that applies the size scale option
func WithSizeScale(scale float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.sizeScale = scale
	}
}

// WithDrift displaces each point by sin(0.5t + 0.01y)·amplitude in x and
// cos(0.3t + 0.01x)·amplitude in y.
//
// Parameters:
//   - amplitude: drift in world units
//
// Returns:
//   - FieldBuilderOption: a function that applies the drift option
func WithDrift(amplitude float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.drift = amplitude
	}
}

// WithPulse enables the radial pulse: each point breathes outward by up to half a unit and
// grows by up to 30% following sin(2t + 0.1y).
//
// Parameters:
//   - amount: pulse weight in [0, 1]
//
// Returns:
//   - FieldBuilderOption: a function that applies the pulse option
func WithPulse(amount float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.pulse = amount
	}
}

// WithOpacity sets the peak point opacity. The default is 0.8.
//
// Parameters:
//   - opacity: alpha in [0, 1]
//
// Returns:
//   - FieldBuilderOption: a function that applies the opacity option
func WithOpacity(opacity float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.opacity = opacity
	}
}

// WithGlow brightens the core of each point.
//
// Parameters:
//   - glow: glow weight, 0 disables it
//
// Returns:
//   - FieldBuilderOption: a function that applies the glow option
func WithGlow(glow float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.glow = glow
	}
}

// WithSpin rotates the whole field at a constant rate per axis.
//
// Parameters:
//   - rate: radians per second per axis
//
// Returns:
//   - FieldBuilderOption: a function that applies the spin option
func WithSpin(rate mgl32.Vec3) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.spin = rate
	}
}

// WithWobble adds amplitude·sin(rate·t) to the field's rotation.
//
// Parameters:
//   - amplitude: radians per axis
//   - rate: angular rate in radians per second
//
// Returns:
//   - FieldBuilderOption: a function that applies the wobble option
func WithWobble(amplitude mgl32.Vec3, rate float32) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.wobble = amplitude
		f.wobbleRate = rate
	}
}

// WithAdditive selects additive (true, the default) or alpha blending.
//
// Parameters:
//   - additive: true for additive blending
//
// Returns:
//   - FieldBuilderOption: a function that applies the blend option
func WithAdditive(additive bool) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.additive = additive
	}
}

// WithConstellation requests a line set through every stride-th point; see NewConstellation.
//
// Parameters:
//   - stride: point stride, 0 for no constellation
//
// Returns:
//   - FieldBuilderOption: a function that applies the constellation option
func WithConstellation(stride int) FieldBuilderOption {
	return func(f *fieldImpl) {
		f.constellate = stride
	}
}
