package engine

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/profiler"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	host LoopHost

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	current      scene.SceneManager
	sceneOptions []scene.SceneBuilderOption
	onMount      func(s scene.SceneManager)

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// Engine runs a host's event loop and keeps exactly one scene mounted on it.
type Engine interface {
	// Host returns the host the engine drives.
	//
	// Returns:
	//   - LoopHost: the host
	Host() LoopHost

	// Scene returns the mounted scene, or nil before the first Mount.
	//
	// Returns:
	//   - scene.SceneManager: the current scene
	Scene() scene.SceneManager

	// Mount disposes the current scene, if any, and mounts a new one built from cfg.
	// It must be called from the loop goroutine once Run has started, e.g. from a key callback.
	//
	// Parameters:
	//   - cfg: the scene config
	//
	// Returns:
	//   - error: a ConfigurationError or SurfaceUnavailableError from the new scene
	Mount(cfg scene.Config) error

	// Run drives the host loop until the host finishes, ctx is cancelled, Quit is called or a
	// frame fails. The mounted scene is disposed before Run returns.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: the frame error that ended the scene, or a recovered panic
	Run(ctx context.Context) error

	// Quit stops Run after the current iteration. Safe to call multiple times and from any goroutine.
	Quit()

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)
}

var _ Engine = &engine{}

// NewEngine creates a new Engine bound to a host.
//
// Parameters:
//   - host: the loop host and mount surface
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(host LoopHost, options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:          &sync.Mutex{},
		host:        host,
		quitChannel: make(chan struct{}),
		profiler:    profiler.NewProfiler(),
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *engine) Host() LoopHost {
	return e.host
}

func (e *engine) Scene() scene.SceneManager {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *engine) Mount(cfg scene.Config) error {
	next, err := scene.NewSceneManager(cfg, e.host, e.sceneOptions...)
	if err != nil {
		return err
	}

	e.mu.Lock()
	prev := e.current
	e.current = nil
	e.mu.Unlock()
	if prev != nil {
		prev.Dispose()
	}

	if err := next.Mount(e.host); err != nil {
		return fmt.Errorf("failed to mount scene %s: %w", cfg.Name, err)
	}
	e.mu.Lock()
	e.current = next
	e.mu.Unlock()

	if e.onMount != nil {
		e.onMount(next)
	}
	return nil
}

func (e *engine) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] loop recovered from panic: %v", r)
			err = fmt.Errorf("engine loop panic: %v", r)
		}
		if s := e.Scene(); s != nil {
			s.Dispose()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-e.quitChannel:
			return nil
		default:
		}

		frameStart := time.Now()
		now, ok := e.host.Step()
		if !ok {
			return nil
		}
		e.host.RunFrames(now)

		s := e.Scene()
		if s != nil && s.State() == scene.StateDisposed {
			return s.Err()
		}

		if e.profilingEnabled && e.profiler != nil && s != nil {
			e.profiler.Tick(s.Stats())
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
