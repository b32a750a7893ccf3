package wave

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/camera"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	cyan   = common.MustParseColor("#4cc9f0")
	purple = common.MustParseColor("#c084fc")
)

func TestGenerateRejectsInvalidGrid(t *testing.T) {
	tests := []struct {
		name          string
		width, height float32
		resolution    int
	}{
		{"zero resolution", 60, 60, 0},
		{"negative resolution", 60, 60, -4},
		{"single vertex", 60, 60, 1},
		{"zero width", 0, 60, 10},
		{"negative height", 60, -1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Generate(tt.width, tt.height, tt.resolution, cyan, purple, mgl32.Vec3{})
			if !errors.Is(err, common.ErrConfiguration) {
				t.Fatalf("Generate() error = %v, want ConfigurationError", err)
			}
			if p != nil {
				t.Errorf("Generate() returned a plane alongside an error")
			}
		})
	}
}

func TestGenerateGrid(t *testing.T) {
	p, err := Generate(60, 30, 11, cyan, purple, mgl32.Vec3{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if got := len(p.Vertices()); got != 4*11*11 {
		t.Errorf("len(Vertices()) = %d, want %d", got, 4*11*11)
	}
	if got := len(p.Indices()); got != 6*10*10 {
		t.Errorf("len(Indices()) = %d, want %d", got, 6*10*10)
	}

	v := p.Vertices()
	for i := 0; i < len(v); i += 4 {
		x, y, u, w := v[i], v[i+1], v[i+2], v[i+3]
		if x < -30 || x > 30 || y < -15 || y > 15 {
			t.Fatalf("vertex %d rest position (%f, %f) outside the plane", i/4, x, y)
		}
		if u < 0 || u > 1 || w < 0 || w > 1 {
			t.Fatalf("vertex %d uv (%f, %f) outside [0, 1]", i/4, u, w)
		}
	}
	// first vertex is the top-left corner
	if v[0] != -30 || v[1] != 15 || v[2] != 0 || v[3] != 1 {
		t.Errorf("first vertex = %v, want (-30, 15, 0, 1)", v[:4])
	}
	for _, idx := range p.Indices() {
		if int(idx) >= 11*11 {
			t.Fatalf("index %d out of range", idx)
		}
	}
}

func TestTimeScalesMatchAtZeroAndDiverge(t *testing.T) {
	one, err := Generate(60, 60, 4, cyan, purple, mgl32.Vec3{}, WithTimeScale(1.0))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	two, err := Generate(60, 60, 4, cyan, purple, mgl32.Vec3{}, WithTimeScale(0.9))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	points := [][2]float32{{0, 0}, {3, -7}, {-12.5, 20}}
	for _, pt := range points {
		if a, b := one.DisplacementAt(pt[0], pt[1], 0), two.DisplacementAt(pt[0], pt[1], 0); a != b {
			t.Errorf("displacement at t=0 differs at %v: %f vs %f", pt, a, b)
		}
	}

	for _, elapsed := range []float64{0.5, 1, 10} {
		diverged := false
		for _, pt := range points {
			if math32.Abs(one.DisplacementAt(pt[0], pt[1], elapsed)-two.DisplacementAt(pt[0], pt[1], elapsed)) > 1e-6 {
				diverged = true
			}
		}
		if !diverged {
			t.Errorf("planes still match at t=%g", elapsed)
		}
	}
}

func TestDisplacementFormula(t *testing.T) {
	got := Displacement(1, 2, 3, 1.2)
	want := (math32.Sin(0.5+1.8) + math32.Cos(1.4+2.4) + math32.Sin(0.9+1.2)) * 1.2
	if math32.Abs(got-want) > 1e-6 {
		t.Errorf("Displacement() = %f, want %f", got, want)
	}
}

func TestUpdateScalesTime(t *testing.T) {
	p, _ := Generate(60, 60, 2, cyan, purple, mgl32.Vec3{}, WithTimeScale(0.9))
	p.Update(10)
	u := p.Uniform()
	if math32.Abs(u.Params[0]-9) > 1e-5 {
		t.Errorf("uniform time = %f, want 9", u.Params[0])
	}
	if u.Size() != GPUWaveUniformSize || len(u.Marshal()) != GPUWaveUniformSize {
		t.Errorf("uniform size mismatch: struct %d, marshaled %d, want %d", u.Size(), len(u.Marshal()), GPUWaveUniformSize)
	}
}

func TestColorAt(t *testing.T) {
	p, _ := Generate(60, 60, 2, common.Color{0, 0, 0}, common.Color{1, 1, 1}, mgl32.Vec3{})

	tests := []struct {
		name string
		u, v float32
		want float32
	}{
		{"edge bottom", 0, 0, 0},
		{"edge top", 1, 1, 1},
		{"center bottom glows", 0.5, 0, 0.25},
		{"midway", 0, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ColorAt(tt.u, tt.v); math32.Abs(got[0]-tt.want) > 1e-5 {
				t.Errorf("ColorAt(%g, %g) = %v, want %f", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestPlaneDrawsOnRaster(t *testing.T) {
	surface := renderer.NewImageSurface(24, 24)
	if err := surface.Attach(); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	r, err := renderer.NewRenderer(renderer.BackendTypeRaster, surface)
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	defer r.Release()

	ctrl := camera.NewCameraController(camera.WithPosition(mgl32.Vec3{0, 0, 35}))
	cam := camera.NewCamera(camera.WithController(ctrl), camera.WithViewport(24, 24))
	p, err := Generate(60, 60, 8, cyan, purple, mgl32.Vec3{}, WithOpacity(1))
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	defer p.Release()
	defer cam.Release()

	if err := cam.Init(r); err != nil {
		t.Fatalf("camera Init() error: %v", err)
	}
	if err := p.Init(r); err != nil {
		t.Fatalf("plane Init() error: %v", err)
	}
	p.Update(1)
	r.WriteBuffers(append(cam.Writes(), p.Writes()...))

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	if err := p.Draw(r, renderer.SceneBindings{Camera: cam.BindGroupProvider()}); err != nil {
		t.Fatalf("Draw() error: %v", err)
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	if px := surface.Frame().RGBAAt(12, 12); px.R == 0 && px.G == 0 && px.B == 0 {
		t.Errorf("center pixel is black, want the plane")
	}
}
