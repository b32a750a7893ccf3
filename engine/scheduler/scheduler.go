package scheduler

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/clock"
)

// TickFunc is invoked once per host frame with the scene's elapsed time in seconds.
type TickFunc func(elapsed float64)

// frameScheduler is the implementation of the FrameScheduler interface.
type frameScheduler struct {
	mu *sync.Mutex

	host  Host
	clock clock.AnimationClock

	onResize      func(width, height int)
	onPointerMove func(x, y float64)

	running      bool
	generation   uint64
	handle       FrameHandle
	clockStarted bool
	tick         TickFunc
	frames       uint64

	removeResize  func()
	removePointer func()
}

// FrameScheduler drives the per-frame tick for one scene and owns its resize and pointer listeners.
//
// Scheduling is cooperative and single-threaded: the next frame is requested from the host only
// after the current tick returns, so ticks never overlap. Stop cancels the pending frame and removes
// the listeners in one step; once it returns no further tick or listener call reaches the owner.
type FrameScheduler interface {
	// Start registers the listeners with the host and begins invoking tick once per host frame.
	// The clock starts at the first frame's timestamp. Start after Stop begins a fresh sequence
	// with a new frame handle; the clock resumes from its frozen value.
	//
	// Parameters:
	//   - tick: the per-frame callback
	//
	// Returns:
	//   - error: a ConfigurationError if the scheduler is already running or tick is nil
	Start(tick TickFunc) error

	// Stop cancels the pending frame, removes the listeners and freezes the clock.
	// Safe to call from inside a tick and safe to call more than once.
	Stop()

	// Running reports whether the scheduler is between Start and Stop.
	//
	// Returns:
	//   - bool: true while ticks are being scheduled
	Running() bool

	// Clock returns the animation clock driven by this scheduler.
	//
	// Returns:
	//   - clock.AnimationClock: the clock
	Clock() clock.AnimationClock

	// Frames returns the number of ticks completed since construction.
	//
	// Returns:
	//   - uint64: the completed tick count
	Frames() uint64
}

var _ FrameScheduler = &frameScheduler{}

// NewFrameScheduler creates a stopped scheduler bound to a host.
//
// Parameters:
//   - host: the environment supplying frames and input events
//   - options: functional options for listeners and clock
//
// Returns:
//   - FrameScheduler: the new scheduler
func NewFrameScheduler(host Host, options ...FrameSchedulerBuilderOption) FrameScheduler {
	s := &frameScheduler{
		mu:   &sync.Mutex{},
		host: host,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.clock == nil {
		s.clock = clock.NewAnimationClock()
	}
	return s
}

func (s *frameScheduler) Start(tick TickFunc) error {
	if tick == nil {
		return &common.ConfigurationError{Field: "scheduler", Reason: "tick function is nil"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return &common.ConfigurationError{Field: "scheduler", Reason: "already running"}
	}

	s.running = true
	s.generation++
	s.clockStarted = false
	s.tick = tick
	gen := s.generation

	if s.onResize != nil {
		s.removeResize = s.host.OnResize(s.resizeListener(gen))
	}
	if s.onPointerMove != nil {
		s.removePointer = s.host.OnPointerMove(s.pointerListener(gen))
	}
	s.handle = s.host.RequestFrame(s.frame(gen))
	return nil
}

func (s *frameScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.running = false
	s.generation++
	s.host.CancelFrame(s.handle)
	s.handle = 0

	if s.removeResize != nil {
		s.removeResize()
		s.removeResize = nil
	}
	if s.removePointer != nil {
		s.removePointer()
		s.removePointer = nil
	}
	s.clock.Stop()
}

func (s *frameScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *frameScheduler) Clock() clock.AnimationClock {
	return s.clock
}

func (s *frameScheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// live reports whether callbacks created for gen may still reach the owner.
// Caller must hold the mutex.
func (s *frameScheduler) live(gen uint64) bool {
	return s.running && s.generation == gen
}

// frame builds the host callback for one tick of generation gen.
// The clock is sampled before the tick runs and the next frame is requested only after it returns.
func (s *frameScheduler) frame(gen uint64) func(now time.Time) {
	return func(now time.Time) {
		s.mu.Lock()
		if !s.live(gen) {
			s.mu.Unlock()
			return
		}
		if !s.clockStarted {
			s.clock.Start(now)
			s.clockStarted = true
		}
		elapsed := s.clock.Advance(now)
		tick := s.tick
		s.mu.Unlock()

		tick(elapsed)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.frames++
		if s.live(gen) {
			s.handle = s.host.RequestFrame(s.frame(gen))
		}
	}
}

func (s *frameScheduler) resizeListener(gen uint64) func(width, height int) {
	return func(width, height int) {
		s.mu.Lock()
		ok := s.live(gen)
		s.mu.Unlock()
		if ok {
			s.onResize(width, height)
		}
	}
}

func (s *frameScheduler) pointerListener(gen uint64) func(x, y float64) {
	return func(x, y float64) {
		s.mu.Lock()
		ok := s.live(gen)
		s.mu.Unlock()
		if ok {
			s.onPointerMove(x, y)
		}
	}
}
