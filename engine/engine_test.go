package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scene"
)

func smallScene(name string) scene.Config {
	return scene.Config{
		Name: name,
		Particles: []scene.ParticleConfig{{
			Count:   30,
			Palette: []string{"#4cc9f0"},
			Extent:  [3]float32{20, 20, 20},
		}},
		Bodies: []scene.BodyGroupConfig{{
			Count:  3,
			Colors: []string{"#c084fc", "#f472b6"},
			Radius: [2]float32{5, 10},
		}},
	}
}

func newTestEngine(frames int, opts ...EngineBuilderOption) (Engine, *HeadlessHost) {
	host := NewHeadlessHost(32, 32, 100*time.Millisecond, frames)
	opts = append([]EngineBuilderOption{WithSceneOptions(scene.WithBackend(renderer.BackendTypeRaster))}, opts...)
	return NewEngine(host, opts...), host
}

func TestRunHeadless(t *testing.T) {
	e, host := newTestEngine(5)
	if err := e.Mount(smallScene("a")); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	if err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if host.Frames() != 5 {
		t.Errorf("presented %d frames, want 5", host.Frames())
	}
	s := e.Scene()
	if got := s.State(); got != scene.StateDisposed {
		t.Errorf("scene state after Run = %s, want disposed", got)
	}
	if got := s.Elapsed(); got < 0.39 || got > 0.41 {
		t.Errorf("Elapsed() = %f, want 0.4", got)
	}
	if live := s.Stats().Live(); live != 0 {
		t.Errorf("Live() = %d after Run, want 0", live)
	}
	if host.Attached() {
		t.Errorf("host still attached after Run")
	}
}

func TestMountSwapsScene(t *testing.T) {
	var mounted []string
	e, host := newTestEngine(2, WithMountCallback(func(s scene.SceneManager) {
		mounted = append(mounted, s.Name())
	}))

	if err := e.Mount(smallScene("first")); err != nil {
		t.Fatalf("Mount(first) error: %v", err)
	}
	first := e.Scene()
	if err := e.Mount(smallScene("second")); err != nil {
		t.Fatalf("Mount(second) error: %v", err)
	}
	defer e.Scene().Dispose()

	if got := first.State(); got != scene.StateDisposed {
		t.Errorf("first scene state = %s, want disposed", got)
	}
	if got := e.Scene().State(); got != scene.StateActive {
		t.Errorf("second scene state = %s, want active", got)
	}
	if !host.Attached() {
		t.Errorf("host not attached to the second scene")
	}
	if strings.Join(mounted, ",") != "first,second" {
		t.Errorf("mount callbacks = %v", mounted)
	}
	if resize, pointer := host.Listeners(); resize != 1 || pointer != 1 {
		t.Errorf("Listeners() = (%d, %d), want one set", resize, pointer)
	}
}

func TestMountInvalidConfigKeepsScene(t *testing.T) {
	e, _ := newTestEngine(1)
	if err := e.Mount(smallScene("ok")); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	defer e.Scene().Dispose()

	bad := smallScene("bad")
	bad.Bodies[0].Count = 99
	if err := e.Mount(bad); err == nil {
		t.Fatalf("Mount(bad) error = nil")
	}
	if got := e.Scene().Name(); got != "ok" {
		t.Errorf("Scene() = %s after rejected config, want ok", got)
	}
}

func TestRunStops(t *testing.T) {
	t.Run("cancelled context", func(t *testing.T) {
		e, host := newTestEngine(100)
		if err := e.Mount(smallScene("a")); err != nil {
			t.Fatalf("Mount() error: %v", err)
		}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := e.Run(ctx); err != nil {
			t.Errorf("Run() error: %v", err)
		}
		if host.Frames() != 0 {
			t.Errorf("presented %d frames after cancel, want 0", host.Frames())
		}
		if got := e.Scene().State(); got != scene.StateDisposed {
			t.Errorf("scene state = %s, want disposed", got)
		}
	})

	t.Run("quit", func(t *testing.T) {
		e, _ := newTestEngine(100)
		e.Quit()
		e.Quit()
		if err := e.Run(context.Background()); err != nil {
			t.Errorf("Run() error: %v", err)
		}
	})
}

type panicHost struct {
	*HeadlessHost
}

func (panicHost) Step() (time.Time, bool) {
	panic("lost device")
}

func TestRunRecoversPanic(t *testing.T) {
	host := panicHost{NewHeadlessHost(16, 16, time.Millisecond, 1)}
	e := NewEngine(host, WithSceneOptions(scene.WithBackend(renderer.BackendTypeRaster)))
	if err := e.Mount(smallScene("a")); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	err := e.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "lost device") {
		t.Errorf("Run() error = %v, want recovered panic", err)
	}
	if got := e.Scene().State(); got != scene.StateDisposed {
		t.Errorf("scene state = %s, want disposed", got)
	}
}
