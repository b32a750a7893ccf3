package common

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name    string
		hex     string
		want    Color
		wantErr bool
	}{
		{"white", "#ffffff", Color{1, 1, 1}, false},
		{"black", "#000000", Color{0, 0, 0}, false},
		{"red", "#ff0000", Color{1, 0, 0}, false},
		{"missing hash", "ffffff", Color{}, true},
		{"garbage", "#zzzzzz", Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseColor(tt.hex)
			if tt.wantErr {
				if !errors.Is(err, ErrConfiguration) {
					t.Fatalf("ParseColor(%q) error = %v, want ConfigurationError", tt.hex, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) unexpected error: %v", tt.hex, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestParsePaletteRejectsEmpty(t *testing.T) {
	if _, err := ParsePalette("palette", nil); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ParsePalette(nil) error = %v, want ConfigurationError", err)
	}
}

func TestColorLerpEndpoints(t *testing.T) {
	a := MustParseColor("#c084fc")
	b := MustParseColor("#4cc9f0")
	if got := a.Lerp(b, 0); got != a {
		t.Errorf("Lerp(0) = %v, want %v", got, a)
	}
	if got := a.Lerp(b, 1); got != b {
		t.Errorf("Lerp(1) = %v, want %v", got, b)
	}
	if got := a.Hex(); got != "#c084fc" {
		t.Errorf("Hex() = %s, want #c084fc", got)
	}
}

func TestErrorsMatchSentinels(t *testing.T) {
	cfgErr := fmt.Errorf("mount: %w", &ConfigurationError{Field: "count", Reason: "must be positive"})
	if !errors.Is(cfgErr, ErrConfiguration) {
		t.Errorf("wrapped ConfigurationError does not match ErrConfiguration")
	}
	if errors.Is(cfgErr, ErrSurfaceUnavailable) {
		t.Errorf("ConfigurationError matched ErrSurfaceUnavailable")
	}

	platform := errors.New("no adapter")
	surfErr := &SurfaceUnavailableError{Reason: "request adapter", Err: platform}
	if !errors.Is(surfErr, ErrSurfaceUnavailable) {
		t.Errorf("SurfaceUnavailableError does not match ErrSurfaceUnavailable")
	}
	if !errors.Is(surfErr, platform) {
		t.Errorf("SurfaceUnavailableError does not unwrap to the platform error")
	}

	var target *ConfigurationError
	if !errors.As(cfgErr, &target) || target.Field != "count" {
		t.Errorf("errors.As did not recover the ConfigurationError field")
	}
}

func TestPerspectiveMapsNearAndFarToUnitDepth(t *testing.T) {
	near, far := float32(0.1), float32(100)
	proj := Perspective(math32.Pi/4, 1, near, far)

	clipNear := proj.Mul4x1(mgl32.Vec4{0, 0, -near, 1})
	clipFar := proj.Mul4x1(mgl32.Vec4{0, 0, -far, 1})

	if d := clipNear[2] / clipNear[3]; math32.Abs(d) > 1e-5 {
		t.Errorf("near plane depth = %f, want 0", d)
	}
	if d := clipFar[2] / clipFar[3]; math32.Abs(d-1) > 1e-4 {
		t.Errorf("far plane depth = %f, want 1", d)
	}
}

func TestModelMatrixTranslatesAndScales(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{}, mgl32.Vec3{2, 2, 2})
	got := TransformPoint(m, mgl32.Vec3{1, 1, 1})
	want := mgl32.Vec4{3, 4, 5, 1}
	if !got.ApproxEqual(want) {
		t.Errorf("TransformPoint = %v, want %v", got, want)
	}
}

func TestFloat32RoundTrip(t *testing.T) {
	buf := make([]byte, 16)
	end := PutFloat32s(buf, 0, 1.5, -2, 3.25, 0)
	if end != 16 {
		t.Fatalf("PutFloat32s end offset = %d, want 16", end)
	}
	if got := Vec4At(buf, 0); got != (mgl32.Vec4{1.5, -2, 3.25, 0}) {
		t.Errorf("Vec4At = %v", got)
	}
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(0, 1, tt.x); math32.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Smoothstep(0,1,%f) = %f, want %f", tt.x, got, tt.want)
		}
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(0, 0, 3, 4); got != 3 {
		t.Errorf("Coalesce = %d, want 3", got)
	}
	if got := Coalesce("", ""); got != "" {
		t.Errorf("Coalesce of empty strings = %q, want empty", got)
	}
}

func TestNewRandIsReproducible(t *testing.T) {
	a, b := NewRand(7), NewRand(7)
	for range 10 {
		if x, y := Uniform(a, 1, 4), Uniform(b, 1, 4); x != y {
			t.Fatalf("seeded draws differ: %f != %f", x, y)
		}
	}
}

// topSource makes Float32 return its largest value, 1 - 2^-24.
type topSource struct{}

func (topSource) Int63() int64 { return 1<<63 - 1<<39 }
func (topSource) Seed(int64)   {}

func TestUniformExcludesUpperBound(t *testing.T) {
	r := rand.New(topSource{})
	tests := []struct{ lo, hi float32 }{
		{100, 101},
		{1, 4},
		{-5, -4.5},
		{50, 80},
	}
	for _, tt := range tests {
		if got := Uniform(r, tt.lo, tt.hi); got >= tt.hi || got < tt.lo {
			t.Errorf("Uniform(%g, %g) = %g, want within [lo, hi)", tt.lo, tt.hi, got)
		}
	}
	if got := Uniform(r, 2, 2); got != 2 {
		t.Errorf("Uniform(2, 2) = %g, want 2", got)
	}
}
