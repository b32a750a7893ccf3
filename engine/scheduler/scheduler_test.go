package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
)

var epoch = time.Unix(1_700_000_000, 0)

func at(seconds float64) time.Time {
	return epoch.Add(time.Duration(seconds * float64(time.Second)))
}

func TestSchedulerTicksOncePerFrame(t *testing.T) {
	host := NewDispatcher()
	s := NewFrameScheduler(host)

	var ticks []float64
	if err := s.Start(func(elapsed float64) { ticks = append(ticks, elapsed) }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for i, ts := range []float64{0, 0.5, 1.25} {
		if n := host.RunFrames(at(ts)); n != 1 {
			t.Fatalf("frame %d ran %d callbacks, want 1", i, n)
		}
	}

	want := []float64{0, 0.5, 1.25}
	if len(ticks) != len(want) {
		t.Fatalf("got %d ticks, want %d", len(ticks), len(want))
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Errorf("tick %d elapsed = %f, want %f", i, ticks[i], want[i])
		}
	}
	if got := s.Frames(); got != 3 {
		t.Errorf("Frames() = %d, want 3", got)
	}
}

func TestSchedulerNoTickAfterStop(t *testing.T) {
	host := NewDispatcher()
	s := NewFrameScheduler(host)

	count := 0
	_ = s.Start(func(float64) { count++ })
	host.RunFrames(at(0))
	s.Stop()

	if host.Pending() != 0 {
		t.Errorf("Pending() = %d after Stop, want 0", host.Pending())
	}
	host.RunFrames(at(1))
	host.RunFrames(at(2))
	if count != 1 {
		t.Errorf("tick ran %d times, want 1", count)
	}
	if s.Running() {
		t.Errorf("Running() = true after Stop")
	}
}

func TestSchedulerStopInsideTick(t *testing.T) {
	host := NewDispatcher()
	s := NewFrameScheduler(host)

	count := 0
	_ = s.Start(func(float64) {
		count++
		s.Stop()
	})
	host.RunFrames(at(0))
	host.RunFrames(at(1))

	if count != 1 {
		t.Errorf("tick ran %d times, want 1", count)
	}
	if host.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", host.Pending())
	}
}

func TestSchedulerDoubleStart(t *testing.T) {
	s := NewFrameScheduler(NewDispatcher())
	if err := s.Start(func(float64) {}); err != nil {
		t.Fatalf("first Start() error = %v", err)
	}
	err := s.Start(func(float64) {})
	if !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("second Start() error = %v, want ConfigurationError", err)
	}
	if err := NewFrameScheduler(NewDispatcher()).Start(nil); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("Start(nil) error = %v, want ConfigurationError", err)
	}
}

func TestSchedulerRestart(t *testing.T) {
	host := NewDispatcher()
	s := NewFrameScheduler(host)

	var first, second []float64
	_ = s.Start(func(e float64) { first = append(first, e) })
	host.RunFrames(at(0))
	host.RunFrames(at(2))
	s.Stop()

	// Time passes while stopped; the clock must not count it.
	if err := s.Start(func(e float64) { second = append(second, e) }); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	if host.Pending() != 1 {
		t.Fatalf("Pending() = %d after restart, want exactly one fresh request", host.Pending())
	}
	host.RunFrames(at(10))
	host.RunFrames(at(11))

	if len(first) != 2 {
		t.Errorf("first sequence saw %d ticks, want 2", len(first))
	}
	want := []float64{2, 3}
	if len(second) != len(want) {
		t.Fatalf("second sequence saw %d ticks, want %d", len(second), len(want))
	}
	for i := range want {
		if second[i] != want[i] {
			t.Errorf("restart tick %d elapsed = %f, want %f", i, second[i], want[i])
		}
	}
}

// leakyHost never cancels frame requests, so stale callbacks still run.
type leakyHost struct {
	*Dispatcher
}

func (leakyHost) CancelFrame(FrameHandle) {}

func TestSchedulerStaleCallbackIgnored(t *testing.T) {
	host := leakyHost{NewDispatcher()}
	s := NewFrameScheduler(host)

	count := 0
	_ = s.Start(func(float64) { count++ })
	s.Stop()
	_ = s.Start(func(float64) { count += 10 })

	if n := host.RunFrames(at(0)); n != 2 {
		t.Fatalf("RunFrames ran %d callbacks, want the stale and the fresh one", n)
	}
	if count != 10 {
		t.Errorf("count = %d, want only the new generation's tick", count)
	}
	if host.Pending() != 1 {
		t.Errorf("Pending() = %d, want one request from the live generation", host.Pending())
	}
}

func TestSchedulerListeners(t *testing.T) {
	host := NewDispatcher()

	var resized [][2]int
	var moved [][2]float64
	s := NewFrameScheduler(host,
		WithResizeListener(func(w, h int) { resized = append(resized, [2]int{w, h}) }),
		WithPointerListener(func(x, y float64) { moved = append(moved, [2]float64{x, y}) }),
	)

	if r, p := host.Listeners(); r != 0 || p != 0 {
		t.Fatalf("listeners registered before Start: resize=%d pointer=%d", r, p)
	}
	_ = s.Start(func(float64) {})
	if r, p := host.Listeners(); r != 1 || p != 1 {
		t.Fatalf("Listeners() = (%d, %d) after Start, want (1, 1)", r, p)
	}

	host.Resize(800, 600)
	host.PointerMove(10, 20)
	s.Stop()

	if r, p := host.Listeners(); r != 0 || p != 0 {
		t.Errorf("Listeners() = (%d, %d) after Stop, want (0, 0)", r, p)
	}

	host.Resize(1024, 768)
	host.PointerMove(30, 40)

	if len(resized) != 1 || resized[0] != [2]int{800, 600} {
		t.Errorf("resize events = %v, want [[800 600]]", resized)
	}
	if len(moved) != 1 || moved[0] != [2]float64{10, 20} {
		t.Errorf("pointer events = %v, want [[10 20]]", moved)
	}
}

func TestSchedulerStopIdempotent(t *testing.T) {
	host := NewDispatcher()
	s := NewFrameScheduler(host)
	s.Stop()
	_ = s.Start(func(float64) {})
	s.Stop()
	s.Stop()
	if s.Running() || host.Pending() != 0 {
		t.Errorf("after repeated Stop: running=%v pending=%d", s.Running(), host.Pending())
	}
}
