package clock

import (
	"testing"
	"time"
)

func TestClockStartsAtZero(t *testing.T) {
	c := NewAnimationClock()
	if got := c.Elapsed(); got != 0 {
		t.Fatalf("Elapsed() = %f before start, want 0", got)
	}

	t0 := time.Unix(100, 0)
	c.Start(t0)
	if got := c.Advance(t0); got != 0 {
		t.Errorf("Advance at start = %f, want 0", got)
	}
	if got := c.Advance(t0.Add(1500 * time.Millisecond)); got != 1.5 {
		t.Errorf("Advance after 1.5s = %f, want 1.5", got)
	}
}

func TestClockIsMonotonic(t *testing.T) {
	c := NewAnimationClock()
	t0 := time.Unix(100, 0)
	c.Start(t0)

	c.Advance(t0.Add(2 * time.Second))
	if got := c.Advance(t0.Add(1 * time.Second)); got != 2 {
		t.Errorf("Advance with an earlier timestamp = %f, want 2", got)
	}
}

func TestClockFreezesWhileStopped(t *testing.T) {
	c := NewAnimationClock()
	t0 := time.Unix(100, 0)
	c.Start(t0)
	c.Advance(t0.Add(3 * time.Second))
	c.Stop()

	if c.Running() {
		t.Fatalf("Running() = true after Stop")
	}
	if got := c.Advance(t0.Add(10 * time.Second)); got != 3 {
		t.Errorf("Advance while stopped = %f, want frozen 3", got)
	}

	// Resuming continues from the frozen value rather than jumping ahead.
	resume := t0.Add(20 * time.Second)
	c.Start(resume)
	if got := c.Advance(resume.Add(time.Second)); got != 4 {
		t.Errorf("Advance after resume = %f, want 4", got)
	}
}

func TestClockReset(t *testing.T) {
	c := NewAnimationClock()
	t0 := time.Unix(100, 0)
	c.Start(t0)
	c.Advance(t0.Add(time.Second))
	c.Reset()

	if c.Running() || c.Elapsed() != 0 {
		t.Errorf("after Reset: running=%v elapsed=%f, want stopped at 0", c.Running(), c.Elapsed())
	}
}
