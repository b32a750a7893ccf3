package scene

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
)

// testConfig is a small scene with one of every entity kind.
func testConfig() Config {
	return Config{
		Name:            "test",
		PointerReactive: true,
		Camera: CameraConfig{
			Position: [3]float32{0, 0, 40},
			Follow:   &FollowConfig{Strength: 8, Smoothing: 0.5},
		},
		Particles: []ParticleConfig{{
			Count:         40,
			Palette:       []string{"#c084fc", "#4cc9f0"},
			Extent:        [3]float32{30, 30, 30},
			Constellation: &ConstellationConfig{Stride: 5},
		}},
		Waves: []WaveConfig{{
			Width:      30,
			Height:     30,
			Resolution: 8,
			Colors:     [2]string{"#4cc9f0", "#c084fc"},
			Position:   [3]float32{0, -10, 0},
			Rotation:   [3]float32{-1.3, 0, 0},
		}},
		Bodies: []BodyGroupConfig{{
			Count:       2,
			Colors:      []string{"#ffffff"},
			Radius:      [2]float32{8, 8},
			Scale:       [2]float32{3, 3},
			Emissive:    0.5,
			DepthMotion: &MotionConfig{Amplitude: 2, Rate: 1},
		}},
		Lights: LightsConfig{
			Points: []PointLightConfig{{Center: [3]float32{0, 0, 30}, Orbit: [3]float32{10, 10, 0}, Rate: 1}},
		},
	}
}

func newTestScene(t *testing.T) (SceneManager, *scheduler.Dispatcher, *renderer.ImageSurface) {
	t.Helper()
	d := scheduler.NewDispatcher()
	s, err := NewSceneManager(testConfig(), d, WithBackend(renderer.BackendTypeRaster))
	if err != nil {
		t.Fatalf("NewSceneManager() error: %v", err)
	}
	return s, d, renderer.NewImageSurface(40, 40)
}

func lit(img *image.RGBA) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			return true
		}
	}
	return false
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnmounted, "unmounted"},
		{StateMounting, "mounting"},
		{StateActive, "active"},
		{StateDisposing, "disposing"},
		{StateDisposed, "disposed"},
		{State(42), "state(42)"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}

func TestNewSceneManagerRejects(t *testing.T) {
	if _, err := NewSceneManager(testConfig(), nil); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("nil host error = %v, want ConfigurationError", err)
	}
	cfg := testConfig()
	cfg.Bodies[0].Count = 0
	if _, err := NewSceneManager(cfg, scheduler.NewDispatcher()); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("invalid config error = %v, want ConfigurationError", err)
	}
}

func TestMountRenderDispose(t *testing.T) {
	s, d, surface := newTestScene(t)
	if got := s.State(); got != StateUnmounted {
		t.Fatalf("State() = %s, want unmounted", got)
	}

	if err := s.Mount(surface); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	if got := s.State(); got != StateActive {
		t.Fatalf("State() = %s, want active", got)
	}
	if !surface.Attached() {
		t.Errorf("surface not attached after Mount")
	}
	if resize, pointer := d.Listeners(); resize != 1 || pointer != 1 {
		t.Errorf("Listeners() = (%d, %d), want (1, 1)", resize, pointer)
	}
	if d.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", d.Pending())
	}

	start := time.Unix(100, 0)
	d.RunFrames(start)
	d.RunFrames(start.Add(500 * time.Millisecond))
	if got := s.Frames(); got != 2 {
		t.Errorf("Frames() = %d, want 2", got)
	}
	if got := s.Elapsed(); got != 0.5 {
		t.Errorf("Elapsed() = %f, want 0.5", got)
	}
	if surface.Frames() != 2 {
		t.Errorf("surface received %d frames, want 2", surface.Frames())
	}
	if !lit(surface.Frame()) {
		t.Errorf("presented frame is entirely black")
	}
	if err := s.Err(); err != nil {
		t.Errorf("Err() = %v", err)
	}
	if live := s.Stats().Live(); live == 0 {
		t.Errorf("no live resources while active")
	}

	s.Dispose()
	if got := s.State(); got != StateDisposed {
		t.Fatalf("State() = %s, want disposed", got)
	}
	stats := s.Stats()
	if stats.Live() != 0 {
		t.Errorf("Live() = %d after Dispose, want 0 (%v)", stats.Live(), stats.LiveByKind)
	}
	if stats.DoubleReleased != 0 {
		t.Errorf("DoubleReleased = %d, want 0", stats.DoubleReleased)
	}
	if surface.Attached() {
		t.Errorf("surface still attached after Dispose")
	}
	if resize, pointer := d.Listeners(); resize != 0 || pointer != 0 {
		t.Errorf("Listeners() = (%d, %d) after Dispose, want (0, 0)", resize, pointer)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d after Dispose, want 0", d.Pending())
	}

	s.Dispose()
	if again := s.Stats(); again.Released != stats.Released || again.DoubleReleased != 0 {
		t.Errorf("second Dispose changed the ledger: %+v vs %+v", again, stats)
	}
	if ran := d.RunFrames(start.Add(time.Second)); ran != 0 {
		t.Errorf("RunFrames() ran %d callbacks after Dispose", ran)
	}
	if surface.Frames() != 2 {
		t.Errorf("surface received frames after Dispose")
	}
}

func TestMountTwice(t *testing.T) {
	s, _, surface := newTestScene(t)
	if err := s.Mount(surface); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	defer s.Dispose()
	before := s.Stats()
	if before.Acquired == 0 {
		t.Fatalf("first Mount acquired no resources")
	}

	other := renderer.NewImageSurface(10, 10)
	if err := s.Mount(other); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("second Mount() error = %v, want ConfigurationError", err)
	}
	after := s.Stats()
	if after.Acquired != before.Acquired || after.Released != before.Released || after.Live() != before.Live() {
		t.Errorf("second Mount changed the ledger: acquired %d->%d, released %d->%d, live %d->%d",
			before.Acquired, after.Acquired, before.Released, after.Released, before.Live(), after.Live())
	}
	if !surface.Attached() {
		t.Errorf("second Mount detached the first surface")
	}
	if other.Attached() {
		t.Errorf("second Mount attached its surface")
	}
	if got := s.State(); got != StateActive {
		t.Errorf("State() = %s after rejected Mount, want active", got)
	}
}

func TestMountFailureUnwinds(t *testing.T) {
	tests := []struct {
		name    string
		surface func() renderer.Surface
		opts    []SceneBuilderOption
	}{
		{"nil surface", func() renderer.Surface { return nil }, nil},
		{"closed surface", func() renderer.Surface {
			s := renderer.NewImageSurface(40, 40)
			s.Close()
			return s
		}, nil},
		{"surface held elsewhere", func() renderer.Surface {
			s := renderer.NewImageSurface(40, 40)
			_ = s.Attach()
			return s
		}, nil},
		{"backend cannot use surface", func() renderer.Surface {
			return renderer.NewImageSurface(40, 40)
		}, []SceneBuilderOption{WithBackend(renderer.BackendTypeWGPU)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := scheduler.NewDispatcher()
			s, err := NewSceneManager(testConfig(), d, tt.opts...)
			if err != nil {
				t.Fatalf("NewSceneManager() error: %v", err)
			}
			surface := tt.surface()
			err = s.Mount(surface)
			if !errors.Is(err, common.ErrSurfaceUnavailable) {
				t.Fatalf("Mount() error = %v, want SurfaceUnavailableError", err)
			}
			if got := s.State(); got != StateUnmounted {
				t.Errorf("State() = %s, want unmounted", got)
			}
			if resize, pointer := d.Listeners(); resize != 0 || pointer != 0 {
				t.Errorf("Listeners() = (%d, %d), want (0, 0)", resize, pointer)
			}
			if d.Pending() != 0 {
				t.Errorf("Pending() = %d, want 0", d.Pending())
			}
			if stats := s.Stats(); stats.Live() != 0 {
				t.Errorf("Live() = %d after failed Mount, want 0", stats.Live())
			}
		})
	}
}

func TestMountFailureReleasesSurface(t *testing.T) {
	d := scheduler.NewDispatcher()
	s, err := NewSceneManager(testConfig(), d, WithBackend(renderer.BackendTypeWGPU))
	if err != nil {
		t.Fatalf("NewSceneManager() error: %v", err)
	}
	surface := renderer.NewImageSurface(40, 40)
	if err := s.Mount(surface); err == nil {
		t.Fatalf("Mount() error = nil, want failure")
	}
	if surface.Attached() {
		t.Errorf("surface still attached after failed Mount")
	}

	// the same surface is free for a working scene
	ok, _, _ := newTestScene(t)
	if err := ok.Mount(surface); err != nil {
		t.Fatalf("Mount() after failure error: %v", err)
	}
	ok.Dispose()
}

func TestDisposeBeforeMount(t *testing.T) {
	s, _, surface := newTestScene(t)
	s.Dispose()
	if got := s.State(); got != StateDisposed {
		t.Fatalf("State() = %s, want disposed", got)
	}
	if err := s.Mount(surface); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("Mount() after Dispose error = %v, want ConfigurationError", err)
	}
	if surface.Attached() {
		t.Errorf("Mount after Dispose attached the surface")
	}
}

func TestResizeAndPointer(t *testing.T) {
	s, d, surface := newTestScene(t)
	if err := s.Mount(surface); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}

	d.Resize(80, 20)
	if w, h := s.Camera().Viewport(); w != 80 || h != 20 {
		t.Errorf("Viewport() = %dx%d, want 80x20", w, h)
	}
	d.Resize(0, 20)
	if w, h := s.Camera().Viewport(); w != 80 || h != 20 {
		t.Errorf("degenerate resize applied: %dx%d", w, h)
	}

	d.PointerMove(80, 0)
	ctrl := s.Camera().Controller()
	if p := ctrl.Pointer(); p.X() != 1 || p.Y() != 1 {
		t.Errorf("Pointer() = %v, want (1, 1)", p)
	}
	d.RunFrames(time.Unix(0, 0))
	if off := ctrl.FollowOffset(); off.X() <= 0 || off.Y() <= 0 {
		t.Errorf("FollowOffset() = %v, want positive components", off)
	}

	s.Dispose()
	s.OnResize(10, 10)
	s.OnPointerMove(1, 1)
	d.Resize(10, 10)
	if s.Camera() != nil {
		t.Errorf("Camera() = non-nil after Dispose")
	}
}

func TestPointerIgnoredWhenNotReactive(t *testing.T) {
	cfg := testConfig()
	cfg.PointerReactive = false
	d := scheduler.NewDispatcher()
	s, err := NewSceneManager(cfg, d, WithBackend(renderer.BackendTypeRaster))
	if err != nil {
		t.Fatalf("NewSceneManager() error: %v", err)
	}
	if err := s.Mount(renderer.NewImageSurface(40, 40)); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	defer s.Dispose()

	d.PointerMove(40, 40)
	if p := s.Camera().Controller().Pointer(); p.X() != 0 || p.Y() != 0 {
		t.Errorf("Pointer() = %v, want origin", p)
	}
}

func TestDisposeFromListener(t *testing.T) {
	s, d, surface := newTestScene(t)
	if err := s.Mount(surface); err != nil {
		t.Fatalf("Mount() error: %v", err)
	}
	remove := d.OnResize(func(int, int) { s.Dispose() })
	defer remove()

	d.Resize(20, 20)
	if got := s.State(); got != StateDisposed {
		t.Fatalf("State() = %s, want disposed", got)
	}
	if ran := d.RunFrames(time.Unix(1, 0)); ran != 0 {
		t.Errorf("RunFrames() ran %d callbacks after Dispose", ran)
	}
}
