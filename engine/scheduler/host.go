package scheduler

import (
	"sync"
	"time"
)

// FrameHandle identifies one pending frame request on a Host.
type FrameHandle uint64

// Host is the environment a FrameScheduler runs inside.
// It supplies per-refresh frame callbacks and delivers viewport resize and pointer events.
// Every callback is invoked on the host's loop thread, never concurrently with another.
type Host interface {
	// RequestFrame schedules fn to run once on the host's next refresh.
	//
	// Parameters:
	//   - fn: the callback, receiving the host's frame timestamp
	//
	// Returns:
	//   - FrameHandle: a handle that cancels this request via CancelFrame
	RequestFrame(fn func(now time.Time)) FrameHandle

	// CancelFrame removes a pending frame request. Unknown or already-run handles are ignored.
	//
	// Parameters:
	//   - h: the handle returned by RequestFrame
	CancelFrame(h FrameHandle)

	// OnResize registers a viewport resize listener.
	//
	// Parameters:
	//   - fn: the listener, receiving the new width and height in pixels
	//
	// Returns:
	//   - func(): removes the listener; safe to call more than once
	OnResize(fn func(width, height int)) (remove func())

	// OnPointerMove registers a pointer-move listener.
	//
	// Parameters:
	//   - fn: the listener, receiving surface-local pixel coordinates
	//
	// Returns:
	//   - func(): removes the listener; safe to call more than once
	OnPointerMove(fn func(x, y float64)) (remove func())
}

type listener[F any] struct {
	id int
	fn F
}

// Dispatcher is a Host implementation that queues frame requests and listeners until the owning
// loop drains them. Platform hosts embed it and call RunFrames once per refresh; tests drive it
// directly to step frames with synthetic timestamps.
type Dispatcher struct {
	mu *sync.Mutex

	nextHandle FrameHandle
	frames     map[FrameHandle]func(now time.Time)
	order      []FrameHandle

	nextListener int
	resize       []listener[func(width, height int)]
	pointer      []listener[func(x, y float64)]
}

var _ Host = &Dispatcher{}

// NewDispatcher creates an empty Dispatcher.
//
// Returns:
//   - *Dispatcher: the new dispatcher
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		mu:     &sync.Mutex{},
		frames: make(map[FrameHandle]func(now time.Time)),
	}
}

func (d *Dispatcher) RequestFrame(fn func(now time.Time)) FrameHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextHandle++
	h := d.nextHandle
	d.frames[h] = fn
	d.order = append(d.order, h)
	return h
}

func (d *Dispatcher) CancelFrame(h FrameHandle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.frames, h)
}

func (d *Dispatcher) OnResize(fn func(width, height int)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	id := d.nextListener
	d.resize = append(d.resize, listener[func(width, height int)]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.resize = removeListener(d.resize, id)
	}
}

func (d *Dispatcher) OnPointerMove(fn func(x, y float64)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextListener++
	id := d.nextListener
	d.pointer = append(d.pointer, listener[func(x, y float64)]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.pointer = removeListener(d.pointer, id)
	}
}

// RunFrames runs every frame callback that was pending when the call began.
// Callbacks requested while running wait for the next call, so a callback that
// re-requests itself runs exactly once per refresh.
//
// Parameters:
//   - now: the frame timestamp passed to each callback
//
// Returns:
//   - int: the number of callbacks run
func (d *Dispatcher) RunFrames(now time.Time) int {
	d.mu.Lock()
	order := d.order
	d.order = nil
	d.mu.Unlock()

	ran := 0
	for _, h := range order {
		d.mu.Lock()
		fn, ok := d.frames[h]
		delete(d.frames, h)
		d.mu.Unlock()
		if !ok {
			continue
		}
		fn(now)
		ran++
	}
	return ran
}

// Resize delivers a viewport resize to every registered listener.
//
// Parameters:
//   - width: new width in pixels
//   - height: new height in pixels
func (d *Dispatcher) Resize(width, height int) {
	d.mu.Lock()
	ls := append([]listener[func(width, height int)](nil), d.resize...)
	d.mu.Unlock()
	for _, l := range ls {
		l.fn(width, height)
	}
}

// PointerMove delivers a pointer position to every registered listener.
//
// Parameters:
//   - x, y: surface-local pixel coordinates
func (d *Dispatcher) PointerMove(x, y float64) {
	d.mu.Lock()
	ls := append([]listener[func(x, y float64)](nil), d.pointer...)
	d.mu.Unlock()
	for _, l := range ls {
		l.fn(x, y)
	}
}

// Pending returns the number of frame requests waiting to run.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

// Listeners returns the number of registered resize and pointer listeners.
func (d *Dispatcher) Listeners() (resize, pointer int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.resize), len(d.pointer)
}

func removeListener[F any](ls []listener[F], id int) []listener[F] {
	for i, l := range ls {
		if l.id == id {
			return append(ls[:i:i], ls[i+1:]...)
		}
	}
	return ls
}
