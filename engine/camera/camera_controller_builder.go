package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the base camera position.
//
// Parameters:
//   - p: world-space base position
//
// Returns:
//   - CameraControllerOption: functional option to set the base position
func WithPosition(p mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.base = p
	}
}

// WithTarget sets the look-at point.
//
// Parameters:
//   - t: world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(t mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = t
	}
}

// WithDrift sets the time-driven drift. Axis x follows sin, y follows cos and z follows sin
// of rate·t, each scaled by its amplitude.
//
// Parameters:
//   - amplitude: per-axis drift amplitude in world units
//   - rate: per-axis angular rate in radians per second
//
// Returns:
//   - CameraControllerOption: functional option to set the drift
func WithDrift(amplitude, rate mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.driftAmplitude = amplitude
		cc.driftRate = rate
	}
}

// WithFollow enables pointer-follow easing. Each Update moves the follow offset toward
// pointer·strength by the smoothing fraction.
//
// Parameters:
//   - strength: world units of offset at the viewport edge
//   - smoothing: fraction of the remaining distance covered per tick, in [0, 1]
//
// Returns:
//   - CameraControllerOption: functional option to set pointer follow
func WithFollow(strength, smoothing float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.followStrength = strength
		cc.followSmoothing = smoothing
	}
}
