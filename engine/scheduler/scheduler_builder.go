package scheduler

import "github.com/Carmen-Shannon/oxy-backdrop/engine/clock"

// FrameSchedulerBuilderOption is a functional option for configuring a FrameScheduler.
type FrameSchedulerBuilderOption func(*frameScheduler)

// WithClock sets the animation clock the scheduler advances each frame.
//
// Parameters:
//   - c: the clock to drive
//
// Returns:
//   - FrameSchedulerBuilderOption: option function to apply
func WithClock(c clock.AnimationClock) FrameSchedulerBuilderOption {
	return func(s *frameScheduler) {
		s.clock = c
	}
}

// WithResizeListener sets the listener registered with the host on Start and removed on Stop.
//
// Parameters:
//   - fn: the listener, receiving the new width and height in pixels
//
// Returns:
//   - FrameSchedulerBuilderOption: option function to apply
func WithResizeListener(fn func(width, height int)) FrameSchedulerBuilderOption {
	return func(s *frameScheduler) {
		s.onResize = fn
	}
}

// WithPointerListener sets the pointer-move listener registered with the host on Start and removed on Stop.
//
// Parameters:
//   - fn: the listener, receiving surface-local pixel coordinates
//
// Returns:
//   - FrameSchedulerBuilderOption: option function to apply
func WithPointerListener(fn func(x, y float64)) FrameSchedulerBuilderOption {
	return func(s *frameScheduler) {
		s.onPointerMove = fn
	}
}
