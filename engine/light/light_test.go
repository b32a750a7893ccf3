package light

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestLightTrajectory(t *testing.T) {
	l := NewLight(
		WithCenter(mgl32.Vec3{0, 0, 50}),
		WithOrbit(mgl32.Vec3{60, 60, 30}, 0.5, 0.35, 0),
	)

	tests := []struct {
		t    float64
		want mgl32.Vec3
	}{
		{0, mgl32.Vec3{0, 60, 50}},
		{float64(math32.Pi), mgl32.Vec3{60, 0, 50 + math32.Sin(0.35*math32.Pi)*30}},
	}
	for _, tt := range tests {
		pos, _ := l.Evaluate(tt.t, 0)
		if !vec3Near(pos, tt.want, 1e-3) {
			t.Errorf("Evaluate(%g) position = %v, want %v", tt.t, pos, tt.want)
		}
	}
}

func TestLightIntensityNeverBelowFloor(t *testing.T) {
	l := NewLight(WithIntensity(0.2), WithPulse(2, 1))
	for i := range 2000 {
		ts := float64(i) * 0.01
		for idx := range MaxLights {
			_, intensity := l.Evaluate(ts, idx)
			if intensity < IntensityFloor {
				t.Fatalf("Evaluate(%g, %d) intensity = %f, below floor", ts, idx, intensity)
			}
		}
	}
}

func TestLightUpdateIsPure(t *testing.T) {
	l := NewLight(WithOrbit(mgl32.Vec3{10, 10, 5}, 0.7, 0.3, 1), WithPulse(2, 0.3))
	l.Update(1.5, 2)
	p1, i1 := l.Position(), l.Intensity()
	l.Update(9, 2)
	l.Update(1.5, 2)
	if l.Position() != p1 || l.Intensity() != i1 {
		t.Errorf("pose at t=1.5 changed after evaluating t=9")
	}
}

func TestSpawnValidation(t *testing.T) {
	tests := []struct {
		name   string
		lights []Light
	}{
		{"too many lights", []Light{NewLight(), NewLight(), NewLight(), NewLight(), NewLight()}},
		{"zero intensity", []Light{NewLight(WithIntensity(0))}},
		{"negative intensity", []Light{NewLight(), NewLight(WithIntensity(-1))}},
		{"zero range", []Light{NewLight(WithRange(0))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig, err := Spawn(tt.lights)
			if !errors.Is(err, common.ErrConfiguration) {
				t.Fatalf("Spawn() error = %v, want ConfigurationError", err)
			}
			if rig != nil {
				t.Errorf("Spawn() returned a rig alongside an error")
			}
		})
	}
}

func TestRigUniform(t *testing.T) {
	red := common.Color{1, 0, 0}
	rig, err := Spawn([]Light{
		NewLight(WithColor(red), WithIntensity(1.5), WithCenter(mgl32.Vec3{1, 2, 3})),
	}, WithAmbient(common.White, 0.5))
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	u := rig.Uniform()
	if u.Size() != GPULightsUniformSize {
		t.Fatalf("Size() = %d, want %d", u.Size(), GPULightsUniformSize)
	}
	buf := u.Marshal()
	if len(buf) != GPULightsUniformSize {
		t.Fatalf("len(Marshal()) = %d, want %d", len(buf), GPULightsUniformSize)
	}
	if got := common.Vec3At(buf, 0); got != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("ambient = %v, want premultiplied 0.5", got)
	}
	if got := common.Vec3At(buf, 32); got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("light 0 position = %v, want (1, 2, 3)", got)
	}
	if got := common.Float32At(buf, 60); got != 1.5 {
		t.Errorf("light 0 intensity = %f, want 1.5", got)
	}
}

func TestContribution(t *testing.T) {
	rig, err := Spawn([]Light{
		NewLight(WithCenter(mgl32.Vec3{0, 0, 10}), WithRange(20)),
	}, WithAmbient(common.White, 0.25))
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	u := rig.Uniform()
	buf := u.Marshal()

	tests := []struct {
		name   string
		normal mgl32.Vec3
		want   float32
	}{
		// distance 10 of range 20 → falloff 0.25
		{"facing", mgl32.Vec3{0, 0, 1}, 0.25 + 0.25},
		{"facing away", mgl32.Vec3{0, 0, -1}, 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Contribution(buf, mgl32.Vec3{}, tt.normal)
			if math32.Abs(got[0]-tt.want) > 1e-5 {
				t.Errorf("Contribution() = %v, want %f per channel", got, tt.want)
			}
		})
	}
}

func vec3Near(a, b mgl32.Vec3, eps float32) bool {
	for i := range a {
		if math32.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}
