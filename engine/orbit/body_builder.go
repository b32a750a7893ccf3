package orbit

import "github.com/go-gl/mathgl/mgl32"

// SpawnOption is a functional option for configuring the ranges Spawn draws from.
type SpawnOption func(*spawnConfig)

// WithSeed sets the seed of the generator every body parameter is drawn from.
//
// Parameters:
//   - seed: the seed
//
// Returns:
//   - SpawnOption: a function that applies the seed option
func WithSeed(seed int64) SpawnOption {
	return func(c *spawnConfig) {
		c.seed = seed
	}
}

// WithRadius sets the orbit radius band [min, max). A zero band keeps bodies at the center.
//
// Parameters:
//   - min, max: the band
//
// Returns:
//   - SpawnOption: a function that applies the radius option
func WithRadius(min, max float32) SpawnOption {
	return func(c *spawnConfig) {
		c.radius = [2]float32{min, max}
	}
}

// WithSpeed sets the orbit speed range [min, max) in rad/s.
//
// Parameters:
//   - min, max: the range
//
// Returns:
//   - SpawnOption: a function that applies the speed option
func WithSpeed(min, max float32) SpawnOption {
	return func(c *spawnConfig) {
		c.speed = [2]float32{min, max}
	}
}

// WithRotationSpeed sets the per-axis spin bound; each body spins within [-max, max) rad/s.
//
// Parameters:
//   - max: the per-axis bound
//
// Returns:
//   - SpawnOption: a function that applies the rotation speed option
func WithRotationSpeed(max mgl32.Vec3) SpawnOption {
	return func(c *spawnConfig) {
		c.rotationSpeed = max
	}
}

// WithScale sets the base scale range [min, max).
//
// Parameters:
//   - min, max: the range, min must be positive
//
// Returns:
//   - SpawnOption: a function that applies the scale option
func WithScale(min, max float32) SpawnOption {
	return func(c *spawnConfig) {
		c.scale = [2]float32{min, max}
	}
}

// WithDepth sets the range [min, max) body depth origins are drawn from.
//
// Parameters:
//   - min, max: the range
//
// Returns:
//   - SpawnOption: a function that applies the depth option
func WithDepth(min, max float32) SpawnOption {
	return func(c *spawnConfig) {
		c.depth = [2]float32{min, max}
	}
}

// WithPhaseOffset adds a constant to every body's phase so groups sharing a scene do not move in step.
//
// Parameters:
//   - offset: the phase offset
//
// Returns:
//   - SpawnOption: a function that applies the phase option
func WithPhaseOffset(offset float32) SpawnOption {
	return func(c *spawnConfig) {
		c.phaseOffset = offset
	}
}

// WithCenter moves the orbit center away from the origin.
//
// Parameters:
//   - center: the orbit center
//
// Returns:
//   - SpawnOption: a function that applies the center option
func WithCenter(center mgl32.Vec3) SpawnOption {
	return func(c *spawnConfig) {
		c.center = center
	}
}

// WithDepthMotion sets the z oscillation every body follows.
//
// Parameters:
//   - amplitude: oscillation amplitude
//   - rate: oscillation rate in rad/s
//
// Returns:
//   - SpawnOption: a function that applies the depth motion option
func WithDepthMotion(amplitude, rate float32) SpawnOption {
	return func(c *spawnConfig) {
		c.depthAmplitude = amplitude
		c.depthRate = rate
	}
}

// WithPulse sets the scale oscillation every body follows. The default rate is 2 with no amplitude.
//
// Parameters:
//   - amplitude: oscillation amplitude added to the base scale
//   - rate: oscillation rate in rad/s
//
// Returns:
//   - SpawnOption: a function that applies the pulse option
func WithPulse(amplitude, rate float32) SpawnOption {
	return func(c *spawnConfig) {
		c.pulseAmplitude = amplitude
		c.pulseRate = rate
	}
}
