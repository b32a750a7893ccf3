package window

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window is a desktop window that hosts one scene at a time.
// It is both the scene's mount surface and its frame host: Step pumps platform events into the
// embedded dispatcher and RunFrames fires the pending frame callbacks once per refresh.
type Window interface {
	scheduler.Host
	renderer.WGPUSurface

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetTitle replaces the title bar text.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// Step polls platform events without blocking and returns the frame timestamp.
	//
	// Returns:
	//   - time.Time: the timestamp for this refresh
	//   - bool: false once the window has been asked to close
	Step() (time.Time, bool)

	// RunFrames runs the frame callbacks pending when the call began.
	//
	// Parameters:
	//   - now: the frame timestamp
	//
	// Returns:
	//   - int: the number of callbacks run
	RunFrames(now time.Time) int

	// IsRunning returns true if the window is still open.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close destroys the window and releases platform resources.
	//
	// Returns:
	//   - error: error if the window was never created
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	*scheduler.Dispatcher

	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// minWidth and minHeight bound interactive resizing.
	minWidth  int
	minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	attached bool
	closed   bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
// Must be called from the goroutine that will run the event loop.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the open window
//   - error: a SurfaceUnavailableError if no window can be created on this display
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		Dispatcher: scheduler.NewDispatcher(),
		mu:         &sync.Mutex{},
		title:      "oxy-backdrop",
		minWidth:   320,
		minHeight:  200,
		width:      1280,
		height:     720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, &common.SurfaceUnavailableError{Reason: "cannot open window", Err: err}
	}
	return w, nil
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Attach() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case w.closed || !platformIsRunningCheck(w):
		return &common.SurfaceUnavailableError{Reason: "window closed"}
	case w.attached:
		return &common.SurfaceUnavailableError{Reason: "window already hosts a scene"}
	}
	w.attached = true
	return nil
}

func (w *engineWindow) Detach() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.attached = false
}

func (w *engineWindow) Step() (time.Time, bool) {
	if !platformProcessMessages(w) {
		return time.Time{}, false
	}
	return time.Now(), true
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// setSize records a framebuffer resize and forwards it to the resize listeners.
func (w *engineWindow) setSize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	w.Dispatcher.Resize(width, height)
}
