package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the camera's positional state. Position is recomputed on every Update
// from a fixed base position, a time-driven drift and an eased pointer-follow offset; the
// Camera reads Position and Target to build its view matrix.
type CameraController interface {
	// Position returns the camera's world-space position as of the last Update.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetPosition sets the base position the drift and follow offsets are added to.
	//
	// Parameters:
	//   - p: world-space base position
	SetPosition(p mgl32.Vec3)

	// SetTarget sets the look-at point.
	//
	// Parameters:
	//   - t: world-space target
	SetTarget(t mgl32.Vec3)

	// SetPointer stores the pointer in normalized device coordinates. It is consumed by
	// the follow easing on the next Update.
	//
	// Parameters:
	//   - ndc: pointer position with both components in [-1, 1]
	SetPointer(ndc mgl32.Vec2)

	// Pointer returns the last pointer position set.
	//
	// Returns:
	//   - mgl32.Vec2: the pointer in normalized device coordinates
	Pointer() mgl32.Vec2

	// FollowOffset returns the current eased pointer-follow offset.
	//
	// Returns:
	//   - mgl32.Vec2: the x/y offset added to the base position
	FollowOffset() mgl32.Vec2

	// Update advances the follow easing by one step and recomputes the position at elapsed time t.
	//
	// Parameters:
	//   - t: elapsed seconds
	Update(t float64)
}
