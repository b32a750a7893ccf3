package scene

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/scheduler"
	"github.com/go-gl/mathgl/mgl32"
)

// State is a SceneManager lifecycle state.
type State int

const (
	// StateUnmounted is the initial state; Mount is only valid here.
	StateUnmounted State = iota
	// StateMounting is held while Mount acquires resources.
	StateMounting
	// StateActive is the mounted, ticking state.
	StateActive
	// StateDisposing is held while Dispose releases resources.
	StateDisposing
	// StateDisposed is terminal.
	StateDisposed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateMounting:
		return "mounting"
	case StateActive:
		return "active"
	case StateDisposing:
		return "disposing"
	case StateDisposed:
		return "disposed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// sceneManager is the implementation of the SceneManager interface.
type sceneManager struct {
	mu *sync.Mutex

	cfg   Config
	host  scheduler.Host
	state State

	backend        renderer.RendererBackendType
	rendererOpts   []renderer.RendererBuilderOption
	onError        func(error)
	pendingDispose bool

	surface   renderer.Surface
	r         renderer.Renderer
	cam       camera.Camera
	entities  *arena
	scheduler scheduler.FrameScheduler

	// releases unwinds everything acquired by Mount, last first.
	releases []func()

	writePool []bind_group_provider.BufferWrite
	stats     renderer.LedgerStats
	err       error
}

// SceneManager owns one scene from Mount to Dispose: its surface claim, renderer, camera,
// entities and frame scheduler.
//
// States advance Unmounted → Mounting → Active → Disposing → Disposed. Every resource Mount
// acquires is released exactly once, either by Mount itself when a later step fails or by Dispose.
type SceneManager interface {
	// Name returns the config name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Config returns a copy of the scene's config.
	//
	// Returns:
	//   - Config: the config
	Config() Config

	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Mount claims the surface, creates the renderer, builds every entity and starts the scheduler.
	// On failure everything acquired so far is released and the manager returns to Unmounted.
	//
	// Parameters:
	//   - surface: the mount target
	//
	// Returns:
	//   - error: a ConfigurationError if not Unmounted or the config is invalid, a
	//     SurfaceUnavailableError if the surface or render context cannot be acquired
	Mount(surface renderer.Surface) error

	// Dispose stops the scheduler and releases every resource. From Unmounted it moves straight
	// to Disposed; from Disposing or Disposed it is a no-op.
	Dispose()

	// OnResize updates the camera aspect and render target size. A no-op unless Active.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	OnResize(width, height int)

	// OnPointerMove stores the pointer in normalized device coordinates for the camera follow
	// easing. A no-op unless Active.
	//
	// Parameters:
	//   - x, y: surface-local pixel coordinates
	OnPointerMove(x, y float64)

	// Elapsed returns the animation clock's last sampled value.
	//
	// Returns:
	//   - float64: elapsed seconds
	Elapsed() float64

	// Frames returns the number of completed ticks.
	//
	// Returns:
	//   - uint64: the tick count
	Frames() uint64

	// Stats returns the renderer's resource ledger. After Dispose it is the final snapshot.
	//
	// Returns:
	//   - renderer.LedgerStats: the ledger
	Stats() renderer.LedgerStats

	// Camera returns the scene camera, or nil unless Active.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Err returns the error that ended the scene, if a tick failed.
	//
	// Returns:
	//   - error: the tick error or nil
	Err() error
}

var _ SceneManager = &sceneManager{}

// NewSceneManager validates a config and binds it to a host. Nothing is allocated until Mount.
//
// Parameters:
//   - cfg: the scene config; zero-valued fields are defaulted
//   - host: the environment supplying frames and input events
//   - options: functional options to configure the manager
//
// Returns:
//   - SceneManager: the manager, Unmounted
//   - error: a ConfigurationError for an invalid config or missing host
func NewSceneManager(cfg Config, host scheduler.Host, options ...SceneBuilderOption) (SceneManager, error) {
	if host == nil {
		return nil, &common.ConfigurationError{Field: "host", Reason: "must not be nil"}
	}
	cfg.Defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &sceneManager{
		mu:      &sync.Mutex{},
		cfg:     cfg,
		host:    host,
		state:   StateUnmounted,
		backend: renderer.BackendTypeAuto,
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

func (s *sceneManager) Name() string {
	return s.cfg.Name
}

func (s *sceneManager) Config() Config {
	return s.cfg
}

func (s *sceneManager) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *sceneManager) Mount(surface renderer.Surface) error {
	s.mu.Lock()
	if s.state != StateUnmounted {
		state := s.state
		s.mu.Unlock()
		return &common.ConfigurationError{Field: "scene", Reason: fmt.Sprintf("cannot mount %s while %s", s.cfg.Name, state)}
	}
	s.state = StateMounting
	s.mu.Unlock()

	err := s.acquire(surface)

	s.mu.Lock()
	if err != nil {
		s.mu.Unlock()
		s.unwind()
		s.mu.Lock()
		s.state = StateUnmounted
		if s.pendingDispose {
			s.state = StateDisposed
		}
		s.mu.Unlock()
		log.Printf("[Scene] Mount of %s failed: %v", s.cfg.Name, err)
		return err
	}
	if s.pendingDispose {
		s.state = StateDisposing
		s.mu.Unlock()
		s.teardown()
		return nil
	}
	s.state = StateActive
	s.mu.Unlock()

	log.Printf("[Scene] %s mounted (%d waves, %d body groups, %d particle fields, %d live resources)",
		s.cfg.Name, len(s.entities.waves), len(s.entities.groups), len(s.entities.fields), s.r.Stats().Live())
	return nil
}

// acquire performs every Mount step, pushing a release for each resource as soon as it exists.
func (s *sceneManager) acquire(surface renderer.Surface) error {
	if surface == nil {
		return &common.SurfaceUnavailableError{Reason: "no mount target"}
	}
	background, err := common.ParseColor(s.cfg.Background)
	if err != nil {
		return fieldError("background", err)
	}
	entities, err := buildArena(&s.cfg)
	if err != nil {
		return err
	}

	if err := surface.Attach(); err != nil {
		var su *common.SurfaceUnavailableError
		if errors.As(err, &su) {
			return err
		}
		return &common.SurfaceUnavailableError{Reason: "surface refused attachment", Err: err}
	}
	s.surface = surface
	s.push(surface.Detach)

	opts := append([]renderer.RendererBuilderOption{renderer.WithClearColor(background)}, s.rendererOpts...)
	r, err := renderer.NewRenderer(s.backend, surface, opts...)
	if err != nil {
		if errors.Is(err, common.ErrSurfaceUnavailable) {
			return err
		}
		return &common.SurfaceUnavailableError{Reason: "render context unavailable", Err: err}
	}
	s.r = r
	s.push(func() {
		r.Release()
		s.stats = r.Stats()
	})

	cam := newCamera(s.cfg.Camera, s.cfg.PointerReactive, surface.Width(), surface.Height())
	s.push(cam.Release)
	if err := cam.Init(r); err != nil {
		return fmt.Errorf("failed to init camera: %w", err)
	}
	s.cam = cam

	s.push(entities.rig.Release)
	if err := entities.rig.Init(r); err != nil {
		return fmt.Errorf("failed to init lights: %w", err)
	}
	for _, e := range entities.draw {
		s.push(e.Release)
		if err := e.Init(r); err != nil {
			return fmt.Errorf("failed to init entity: %w", err)
		}
	}
	s.entities = entities

	sched := scheduler.NewFrameScheduler(s.host,
		scheduler.WithResizeListener(s.OnResize),
		scheduler.WithPointerListener(s.OnPointerMove),
	)
	if err := sched.Start(s.tick); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	s.scheduler = sched
	s.push(sched.Stop)
	return nil
}

func (s *sceneManager) push(release func()) {
	s.releases = append(s.releases, release)
}

// unwind runs every pushed release, last first, and forgets them.
func (s *sceneManager) unwind() {
	releases := s.releases
	s.releases = nil
	for i := len(releases) - 1; i >= 0; i-- {
		releases[i]()
	}
}

func (s *sceneManager) Dispose() {
	s.mu.Lock()
	switch s.state {
	case StateUnmounted:
		s.state = StateDisposed
		s.mu.Unlock()
		log.Printf("[Scene] %s disposed before mount", s.cfg.Name)
		return
	case StateMounting:
		s.pendingDispose = true
		s.mu.Unlock()
		return
	case StateDisposing, StateDisposed:
		s.mu.Unlock()
		return
	}
	s.state = StateDisposing
	s.mu.Unlock()

	s.teardown()
}

// teardown releases everything and enters Disposed. The caller has already moved to Disposing.
func (s *sceneManager) teardown() {
	s.unwind()

	s.mu.Lock()
	s.state = StateDisposed
	s.cam = nil
	s.entities = nil
	s.surface = nil
	stats := s.stats
	s.mu.Unlock()

	log.Printf("[Scene] %s disposed: %d acquired, %d released, %d live",
		s.cfg.Name, stats.Acquired, stats.Released, stats.Live())
}

func (s *sceneManager) OnResize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || width <= 0 || height <= 0 {
		return
	}
	s.cam.SetViewport(width, height)
	if err := s.r.Resize(width, height); err != nil {
		log.Printf("[Scene] %s resize to %dx%d failed: %v", s.cfg.Name, width, height, err)
	}
}

func (s *sceneManager) OnPointerMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive || !s.cfg.PointerReactive {
		return
	}
	w, h := s.cam.Viewport()
	if w <= 0 || h <= 0 {
		return
	}
	nx := float32(x/float64(w)*2 - 1)
	ny := -float32(y/float64(h)*2 - 1)
	s.cam.Controller().SetPointer(mgl32.Vec2{nx, ny})
}

func (s *sceneManager) Elapsed() float64 {
	s.mu.Lock()
	sched := s.scheduler
	s.mu.Unlock()
	if sched == nil {
		return 0
	}
	return sched.Clock().Elapsed()
}

func (s *sceneManager) Frames() uint64 {
	s.mu.Lock()
	sched := s.scheduler
	s.mu.Unlock()
	if sched == nil {
		return 0
	}
	return sched.Frames()
}

func (s *sceneManager) Stats() renderer.LedgerStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateActive && s.r != nil {
		return s.r.Stats()
	}
	return s.stats
}

func (s *sceneManager) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return nil
	}
	return s.cam
}

func (s *sceneManager) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// tick runs one frame: camera easing, entity poses, buffer writes, then one render pass.
// A failed frame records the error and disposes the scene.
func (s *sceneManager) tick(elapsed float64) {
	s.mu.Lock()
	if s.state != StateActive {
		s.mu.Unlock()
		return
	}
	err := s.render(elapsed)
	if err != nil {
		s.err = err
	}
	onError := s.onError
	s.mu.Unlock()

	if err == nil {
		return
	}
	log.Printf("[Scene] %s frame failed at t=%.3f: %v", s.cfg.Name, elapsed, err)
	if onError != nil {
		onError(err)
	}
	s.Dispose()
}

// render composes one frame. Caller must hold the mutex.
func (s *sceneManager) render(elapsed float64) error {
	s.cam.Controller().Update(elapsed)
	s.cam.Update()

	a := s.entities
	a.rig.Update(elapsed)
	for _, e := range a.draw {
		e.Update(elapsed)
	}

	s.writePool = s.writePool[:0]
	s.writePool = append(s.writePool, s.cam.Writes()...)
	s.writePool = append(s.writePool, a.rig.Writes()...)
	for _, e := range a.draw {
		s.writePool = append(s.writePool, e.Writes()...)
	}
	s.r.WriteBuffers(s.writePool)

	if err := s.r.BeginFrame(); err != nil {
		return fmt.Errorf("failed to begin frame: %w", err)
	}
	bindings := renderer.SceneBindings{
		Camera: s.cam.BindGroupProvider(),
		Lights: a.rig.BindGroupProvider(),
	}
	for _, e := range a.draw {
		if err := e.Draw(s.r, bindings); err != nil {
			_ = s.r.EndFrame()
			return err
		}
	}
	if err := s.r.EndFrame(); err != nil {
		return fmt.Errorf("failed to end frame: %w", err)
	}
	if err := s.r.Present(); err != nil {
		return fmt.Errorf("failed to present frame: %w", err)
	}
	return nil
}
