package clock

import (
	"sync"
	"time"
)

// animationClock is the implementation of the AnimationClock interface.
type animationClock struct {
	mu *sync.Mutex

	running bool
	// origin is the host timestamp that corresponds to elapsed == base.
	origin time.Time
	// base is the elapsed value carried over from before the last Start.
	base float64
	// elapsed is the last value returned by Advance; it never decreases.
	elapsed float64
}

// AnimationClock is a monotonic elapsed-time source for one scene.
// Elapsed time starts at zero, advances only while the clock is running and is frozen
// (last value retained) while stopped. Timestamps are supplied by the caller so a host's
// frame timestamp, a wall clock or a test harness can all drive it.
type AnimationClock interface {
	// Start begins advancing from the currently frozen value using now as the reference point.
	// Calling Start on a running clock has no effect.
	//
	// Parameters:
	//   - now: the host timestamp at which the clock resumes
	Start(now time.Time)

	// Stop freezes the clock at its last advanced value.
	Stop()

	// Advance samples the clock at now and returns the elapsed seconds.
	// A timestamp earlier than a previous sample never moves the value backwards.
	// While stopped, Advance returns the frozen value.
	//
	// Parameters:
	//   - now: the host timestamp to sample at
	//
	// Returns:
	//   - float64: elapsed seconds since the clock first started
	Advance(now time.Time) float64

	// Elapsed returns the last sampled elapsed time in seconds without advancing.
	//
	// Returns:
	//   - float64: the last sampled elapsed seconds
	Elapsed() float64

	// Running reports whether the clock is advancing.
	//
	// Returns:
	//   - bool: true between Start and Stop
	Running() bool

	// Reset stops the clock and returns elapsed time to zero.
	Reset()
}

var _ AnimationClock = &animationClock{}

// NewAnimationClock creates a stopped clock at zero elapsed time.
//
// Returns:
//   - AnimationClock: the new clock
func NewAnimationClock() AnimationClock {
	return &animationClock{
		mu: &sync.Mutex{},
	}
}

func (c *animationClock) Start(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true
	c.origin = now
	c.base = c.elapsed
}

func (c *animationClock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
}

func (c *animationClock) Advance(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return c.elapsed
	}
	if e := c.base + now.Sub(c.origin).Seconds(); e > c.elapsed {
		c.elapsed = e
	}
	return c.elapsed
}

func (c *animationClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *animationClock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *animationClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.base = 0
	c.elapsed = 0
}
