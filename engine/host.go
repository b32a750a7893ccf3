package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// LoopHost is an environment the engine can drive: a frame host that is also the scene's mount
// surface, with a loop step that pumps its events.
// window.Window, terminal.Terminal and HeadlessHost satisfy it.
type LoopHost interface {
	scheduler.Host
	renderer.Surface

	// Step pumps pending events and returns the next frame timestamp, or false when the host is done.
	Step() (now time.Time, ok bool)

	// RunFrames runs the frame callbacks pending when the call began.
	RunFrames(now time.Time) int
}

// HeadlessHost is an off-screen LoopHost that advances a virtual clock by a fixed step for a
// fixed number of frames. It renders through the raster backend into an in-memory image.
type HeadlessHost struct {
	*scheduler.Dispatcher
	*renderer.ImageSurface

	start  time.Time
	step   time.Duration
	frames int
	n      int
}

var _ LoopHost = &HeadlessHost{}

// NewHeadlessHost creates an off-screen host.
//
// Parameters:
//   - width, height: the image size in pixels
//   - step: the virtual time between frames
//   - frames: the number of frames Step yields before reporting done
//
// Returns:
//   - *HeadlessHost: the new host
func NewHeadlessHost(width, height int, step time.Duration, frames int) *HeadlessHost {
	return &HeadlessHost{
		Dispatcher:   scheduler.NewDispatcher(),
		ImageSurface: renderer.NewImageSurface(width, height),
		start:        time.Unix(0, 0),
		step:         step,
		frames:       frames,
	}
}

// Step returns the next virtual timestamp until the frame budget is spent.
func (h *HeadlessHost) Step() (time.Time, bool) {
	if h.n >= h.frames {
		return time.Time{}, false
	}
	now := h.start.Add(time.Duration(h.n) * h.step)
	h.n++
	return now, true
}

// Resize changes the image size and notifies resize listeners.
func (h *HeadlessHost) Resize(width, height int) {
	h.ImageSurface.Resize(width, height)
	h.Dispatcher.Resize(width, height)
}
