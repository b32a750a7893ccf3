package orbit

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/light"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var cycle = []common.Color{
	common.MustParseColor("#c084fc"),
	common.MustParseColor("#4cc9f0"),
	common.MustParseColor("#f472b6"),
}

func TestSpawnRejectsInvalidArguments(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		colors []common.Color
		opts   []SpawnOption
	}{
		{"zero bodies", 0, cycle, nil},
		{"too many bodies", MaxBodies + 1, cycle, nil},
		{"empty color cycle", 4, nil, nil},
		{"inverted radius", 4, cycle, []SpawnOption{WithRadius(50, 35)}},
		{"negative radius", 4, cycle, []SpawnOption{WithRadius(-1, 5)}},
		{"zero scale", 4, cycle, []SpawnOption{WithScale(0, 1)}},
		{"inverted depth", 4, cycle, []SpawnOption{WithDepth(1, -1)}},
		{"pulse equal to scale", 4, cycle, []SpawnOption{WithScale(0.5, 1), WithPulse(0.5, 2)}},
		{"negative pulse beyond scale", 4, cycle, []SpawnOption{WithScale(1, 1), WithPulse(-1.5, 2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodies, err := Spawn(tt.n, tt.colors, tt.opts...)
			if !errors.Is(err, common.ErrConfiguration) {
				t.Fatalf("Spawn() error = %v, want ConfigurationError", err)
			}
			if bodies != nil {
				t.Errorf("Spawn() returned bodies alongside an error")
			}
		})
	}
}

func TestSpawnAssignsTuples(t *testing.T) {
	bodies, err := Spawn(12, cycle,
		WithSeed(3),
		WithRadius(35, 50),
		WithSpeed(0.01, 0.03),
		WithRotationSpeed(mgl32.Vec3{1.5, 1.5, 1.5}),
		WithScale(0.7, 0.7),
		WithPhaseOffset(0.5),
	)
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if len(bodies) != 12 {
		t.Fatalf("len(bodies) = %d, want 12", len(bodies))
	}

	for i, b := range bodies {
		if want := 2 * math32.Pi * float32(i) / 12; math32.Abs(b.BaseAngle-want) > 1e-6 {
			t.Errorf("body %d base angle = %f, want %f", i, b.BaseAngle, want)
		}
		if b.Radius < 35 || b.Radius >= 50 {
			t.Errorf("body %d radius = %f outside [35, 50)", i, b.Radius)
		}
		if b.Speed < 0.01 || b.Speed >= 0.03 {
			t.Errorf("body %d speed = %f outside [0.01, 0.03)", i, b.Speed)
		}
		for axis, s := range b.RotationSpeed {
			if s < -1.5 || s >= 1.5 {
				t.Errorf("body %d rotation speed[%d] = %f outside [-1.5, 1.5)", i, axis, s)
			}
		}
		if b.BaseScale != 0.7 {
			t.Errorf("body %d base scale = %f, want 0.7", i, b.BaseScale)
		}
		if b.Color != cycle[i%3] {
			t.Errorf("body %d color = %v, want %v", i, b.Color, cycle[i%3])
		}
		if b.Phase != float32(i)+0.5 {
			t.Errorf("body %d phase = %f, want %f", i, b.Phase, float32(i)+0.5)
		}
	}
}

func TestUpdateIsPureInTime(t *testing.T) {
	bodies, err := Spawn(8, cycle,
		WithSeed(11),
		WithRotationSpeed(mgl32.Vec3{0.6, 0.9, 0.3}),
		WithDepthMotion(12, 0.5),
		WithPulse(0.3, 3),
	)
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	Update(bodies, 1.25)
	first := make([]Pose, len(bodies))
	for i := range bodies {
		first[i] = bodies[i].Pose
	}

	Update(bodies, 40)
	Update(bodies, 1.25)
	for i := range bodies {
		if bodies[i].Pose != first[i] {
			t.Errorf("body %d pose at t=1.25 changed after visiting t=40: %v vs %v", i, bodies[i].Pose, first[i])
		}
	}
}

func TestPoseAt(t *testing.T) {
	b := Body{
		BaseAngle:     0,
		Radius:        10,
		Speed:         math32.Pi / 2,
		RotationSpeed: mgl32.Vec3{1, 2, 3},
		BaseScale:     1,
		Depth:         5,
		Phase:         0,
		Motion:        Motion{DepthAmplitude: 2, DepthRate: math32.Pi / 2, PulseAmplitude: 0.5, PulseRate: math32.Pi / 2},
	}
	p := b.PoseAt(1)
	want := mgl32.Vec3{0, 10, 7}
	if !vec3Near(p.Position, want, 1e-4) {
		t.Errorf("position = %v, want %v", p.Position, want)
	}
	if p.Rotation != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("rotation = %v, want (1, 2, 3)", p.Rotation)
	}
	if math32.Abs(p.Scale-1.5) > 1e-5 {
		t.Errorf("scale = %f, want 1.5", p.Scale)
	}
}

func TestNewGroup(t *testing.T) {
	bodies, _ := Spawn(3, cycle)

	tests := []struct {
		name    string
		shape   model.Shape
		opts    []GroupBuilderOption
		wantErr bool
		wantKey string
	}{
		{"lit spheres", model.ShapeSphere, nil, false, model.LitPipelineKey},
		{"wireframe icosahedra", model.ShapeIcosahedron, []GroupBuilderOption{WithWireframe(true), WithDetail(2), WithShapeRadius(30)}, false, model.LinePipelineKey},
		{"unknown shape", model.Shape("torus"), nil, true, ""},
		{"zero radius", model.ShapeTetrahedron, []GroupBuilderOption{WithShapeRadius(0)}, true, ""},
		{"opacity above one", model.ShapeTetrahedron, []GroupBuilderOption{WithOpacity(2)}, true, ""},
		{"negative emissive", model.ShapeTetrahedron, []GroupBuilderOption{WithEmissive(-1)}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGroup(bodies, tt.shape, tt.opts...)
			if tt.wantErr {
				if !errors.Is(err, common.ErrConfiguration) {
					t.Fatalf("NewGroup() error = %v, want ConfigurationError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGroup() error: %v", err)
			}
			if got := g.PipelineKey(); got != tt.wantKey {
				t.Errorf("PipelineKey() = %q, want %q", got, tt.wantKey)
			}
			if got := len(g.Writes()); got != len(bodies) {
				t.Errorf("len(Writes()) = %d, want %d", got, len(bodies))
			}
		})
	}

	if _, err := NewGroup(nil, model.ShapeSphere); !errors.Is(err, common.ErrConfiguration) {
		t.Errorf("NewGroup(nil) error = %v, want ConfigurationError", err)
	}
}

func TestGroupWritesPose(t *testing.T) {
	bodies, _ := Spawn(2, cycle, WithRadius(10, 10), WithDepth(0, 0))
	g, err := NewGroup(bodies, model.ShapeTetrahedron, WithOpacity(0.4), WithEmissive(0.5))
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}
	g.Update(0)

	buf := g.Writes()[1].Data
	m := common.Mat4At(buf, 0)
	// body 1 of 2 starts half way round the orbit
	if got := m.Col(3).Vec3(); !vec3Near(got, mgl32.Vec3{-10, 0, 0}, 1e-4) {
		t.Errorf("translation = %v, want (-10, 0, 0)", got)
	}
	color := common.Vec4At(buf, 64)
	if color[3] != 0.4 {
		t.Errorf("opacity = %f, want 0.4", color[3])
	}
	if got, want := common.Vec3At(buf, 80), mgl32.Vec3(cycle[1].Scale(0.5)); got != want {
		t.Errorf("emissive = %v, want %v", got, want)
	}
}

func TestGroupDrawsOnRaster(t *testing.T) {
	surface := renderer.NewImageSurface(32, 32)
	if err := surface.Attach(); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeRaster, surface)
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	defer r.Release()

	ctrl := camera.NewCameraController(camera.WithPosition(mgl32.Vec3{0, 0, 20}))
	cam := camera.NewCamera(camera.WithController(ctrl), camera.WithViewport(32, 32))
	rig, err := light.Spawn([]light.Light{light.NewLight(light.WithCenter(mgl32.Vec3{0, 0, 30}))}, light.WithAmbient(common.White, 1))
	if err != nil {
		t.Fatalf("light.Spawn() error: %v", err)
	}
	bodies, _ := Spawn(1, []common.Color{common.White}, WithRadius(0, 0), WithDepth(0, 0), WithScale(4, 4))
	g, err := NewGroup(bodies, model.ShapeSphere, WithEmissive(0.5))
	if err != nil {
		t.Fatalf("NewGroup() error: %v", err)
	}

	for _, init := range []func(renderer.Renderer) error{cam.Init, rig.Init, g.Init} {
		if err := init(r); err != nil {
			t.Fatalf("Init() error: %v", err)
		}
	}
	g.Update(0)
	var writes []bind_group_provider.BufferWrite
	writes = append(writes, cam.Writes()...)
	writes = append(writes, rig.Writes()...)
	writes = append(writes, g.Writes()...)
	r.WriteBuffers(writes)

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	scene := renderer.SceneBindings{Camera: cam.BindGroupProvider(), Lights: rig.BindGroupProvider()}
	if err := g.Draw(r, scene); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	if px := surface.Frame().RGBAAt(16, 16); px.R == 0 && px.G == 0 && px.B == 0 {
		t.Errorf("center pixel is black, want the sphere")
	}

	g.Release()
	g.Release()
	rig.Release()
	cam.Release()
	if stats := r.Stats(); stats.DoubleReleased != 0 {
		t.Errorf("DoubleReleased = %d, want 0", stats.DoubleReleased)
	}
}

// vec3Near compares per component with an absolute tolerance, so expected zeros
// accept the residue of sin(π) and friends.
func vec3Near(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
