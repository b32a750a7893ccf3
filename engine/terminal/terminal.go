package terminal

import (
	"image"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gdamore/tcell/v2"
)

// upperHalf is drawn in every cell: its foreground is the top pixel, its background the bottom one.
const upperHalf = '▀'

// Terminal is a character-cell display that hosts one scene at a time.
// Each cell shows two vertically stacked pixels, so the raster surface is cols wide and rows*2 high.
type Terminal interface {
	scheduler.Host
	renderer.RasterSurface

	// SetKeyDownCallback sets the callback for key press events.
	//
	// Parameters:
	//   - callback: function receiving the key code (see common.Key*)
	SetKeyDownCallback(callback func(keyCode uint32))

	// Step drains pending terminal events without blocking and returns the frame timestamp.
	//
	// Returns:
	//   - time.Time: the timestamp for this refresh
	//   - bool: false once the user has quit or the terminal was closed
	Step() (time.Time, bool)

	// RunFrames runs the frame callbacks pending when the call began.
	//
	// Parameters:
	//   - now: the frame timestamp
	//
	// Returns:
	//   - int: the number of callbacks run
	RunFrames(now time.Time) int

	// Close restores the terminal. Calling Close again is a no-op.
	Close()
}

// terminal is the implementation of the Terminal interface.
type terminal struct {
	*scheduler.Dispatcher

	mu     *sync.Mutex
	screen tcell.Screen

	cols, rows int
	attached   bool
	closed     bool

	onKeyDown func(keyCode uint32)
}

var _ Terminal = &terminal{}

// NewTerminal takes over the controlling terminal, or the screen given via WithScreen.
//
// Parameters:
//   - options: functional options to configure the terminal
//
// Returns:
//   - Terminal: the initialized terminal
//   - error: a SurfaceUnavailableError if no screen can be initialized
func NewTerminal(options ...TerminalBuilderOption) (Terminal, error) {
	t := &terminal{
		Dispatcher: scheduler.NewDispatcher(),
		mu:         &sync.Mutex{},
	}
	for _, opt := range options {
		opt(t)
	}
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, &common.SurfaceUnavailableError{Reason: "no terminal", Err: err}
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return nil, &common.SurfaceUnavailableError{Reason: "cannot initialize terminal", Err: err}
	}
	t.screen.HideCursor()
	t.screen.EnableMouse(tcell.MouseMotionEvents)
	t.screen.Clear()
	t.cols, t.rows = t.screen.Size()
	return t, nil
}

func (t *terminal) SetKeyDownCallback(callback func(keyCode uint32)) {
	t.onKeyDown = callback
}

func (t *terminal) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols
}

func (t *terminal) Height() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows * 2
}

func (t *terminal) Attach() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case t.closed:
		return &common.SurfaceUnavailableError{Reason: "terminal closed"}
	case t.attached:
		return &common.SurfaceUnavailableError{Reason: "terminal already hosts a scene"}
	case t.cols == 0 || t.rows == 0:
		return &common.SurfaceUnavailableError{Reason: "terminal has no cells"}
	}
	t.attached = true
	return nil
}

func (t *terminal) Detach() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.attached = false
}

// Present draws a frame as half-block cells. Frames whose size no longer matches the cell grid
// are resampled to fit.
func (t *terminal) Present(frame *image.RGBA) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return &common.SurfaceUnavailableError{Reason: "terminal closed"}
	}

	w, h := t.cols, t.rows*2
	if b := frame.Bounds(); b.Dx() != w || b.Dy() != h {
		frame = transform.Resize(frame, w, h, transform.NearestNeighbor)
	}
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			top := frame.RGBAAt(col, row*2)
			bottom := frame.RGBAAt(col, row*2+1)
			style := tcell.StyleDefault.
				Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
				Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
			t.screen.SetContent(col, row, upperHalf, nil, style)
		}
	}
	t.screen.Show()
	return nil
}

func (t *terminal) Step() (time.Time, bool) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return time.Time{}, false
	}

	for t.screen.HasPendingEvent() {
		if !t.handle(t.screen.PollEvent()) {
			return time.Time{}, false
		}
	}
	if cols, rows := t.screen.Size(); cols != t.Width() || rows*2 != t.Height() {
		t.resize(cols, rows)
	}
	return time.Now(), true
}

// handle processes one event and reports whether the loop should continue.
func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case nil:
		return false
	case *tcell.EventResize:
		t.resize(ev.Size())
		t.screen.Sync()
	case *tcell.EventMouse:
		x, y := ev.Position()
		t.Dispatcher.PointerMove(float64(x), float64(y*2+1))
	case *tcell.EventKey:
		code, ok := keyCode(ev)
		if !ok {
			return true
		}
		if code == common.KeyEsc || code == common.KeyQ {
			return false
		}
		if t.onKeyDown != nil {
			t.onKeyDown(code)
		}
	}
	return true
}

func (t *terminal) resize(cols, rows int) {
	t.mu.Lock()
	if cols == t.cols && rows == t.rows {
		t.mu.Unlock()
		return
	}
	t.cols, t.rows = cols, rows
	t.mu.Unlock()
	if cols > 0 && rows > 0 {
		t.Dispatcher.Resize(cols, rows*2)
	}
}

func (t *terminal) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	t.screen.Fini()
	log.Printf("[Terminal] restored %dx%d terminal", t.cols, t.rows)
}

// keyCode maps a terminal key event onto the shared key codes.
func keyCode(ev *tcell.EventKey) (uint32, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return common.KeyEsc, true
	case tcell.KeyRune:
		r := ev.Rune()
		if r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		if r < 0x80 {
			return uint32(r), true
		}
	}
	return 0, false
}
