package light

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/go-gl/mathgl/mgl32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - c: the light color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithIntensity is an option builder that sets the base intensity.
//
// Parameters:
//   - intensity: the base intensity, must be positive for the light to be spawned
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the attenuation distance.
// Beyond this distance the light contributes nothing.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - LightBuilderOption: a function that applies the range option to a lightImpl
func WithRange(lightRange float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.lightRange = lightRange
	}
}

// WithCenter is an option builder that sets the trajectory center.
// A light without an orbit stays at its center.
//
// Parameters:
//   - center: world-space center
//
// Returns:
//   - LightBuilderOption: a function that applies the center option to a lightImpl
func WithCenter(center mgl32.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.center = center
	}
}

// WithOrbit is an option builder that sets the trajectory around the center.
// Negative radii mirror the corresponding axis.
//
// Parameters:
//   - radius: per-axis excursion (rx, ry, rz)
//   - rate: angular rate of the x/y orbit in radians per second
//   - depthRate: angular rate of the z oscillation in radians per second
//   - phase: phase offset shared by both oscillations
//
// Returns:
//   - LightBuilderOption: a function that applies the orbit option to a lightImpl
func WithOrbit(radius mgl32.Vec3, rate, depthRate, phase float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.radius = radius
		l.rate = rate
		l.depthRate = depthRate
		l.phase = phase
	}
}

// WithPulse is an option builder that makes the intensity oscillate around its base.
//
// Parameters:
//   - rate: angular rate in radians per second
//   - amplitude: intensity excursion
//
// Returns:
//   - LightBuilderOption: a function that applies the pulse option to a lightImpl
func WithPulse(rate, amplitude float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.pulseRate = rate
		l.pulseAmplitude = amplitude
	}
}
