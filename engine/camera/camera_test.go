package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestControllerDrift(t *testing.T) {
	tests := []struct {
		name string
		opts []CameraControllerOption
		t    float64
		want mgl32.Vec3
	}{
		{
			name: "z breathing",
			opts: []CameraControllerOption{WithDrift(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 0.3})},
			t:    2,
			want: mgl32.Vec3{0, 0, 50 + math32.Sin(0.6)*5},
		},
		{
			name: "xy circle",
			opts: []CameraControllerOption{
				WithPosition(mgl32.Vec3{0, 0, 30}),
				WithDrift(mgl32.Vec3{5, 5, 0}, mgl32.Vec3{0.1, 0.1, 0}),
			},
			t:    10,
			want: mgl32.Vec3{math32.Sin(1) * 5, math32.Cos(1) * 5, 30},
		},
		{
			name: "static",
			opts: []CameraControllerOption{WithPosition(mgl32.Vec3{0, 10, 35})},
			t:    123,
			want: mgl32.Vec3{0, 10, 35},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController(tt.opts...)
			cc.Update(tt.t)
			if got := cc.Position(); !got.ApproxEqualThreshold(tt.want, 1e-4) {
				t.Errorf("Position() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestControllerFollowEasesTowardPointer(t *testing.T) {
	cc := NewCameraController(WithFollow(8, 0.03))
	cc.SetPointer(mgl32.Vec2{1, -0.5})

	cc.Update(0)
	first := cc.FollowOffset()
	want := mgl32.Vec2{8 * 0.03, -4 * 0.03}
	if !first.ApproxEqualThreshold(want, 1e-6) {
		t.Fatalf("offset after one tick = %v, want %v", first, want)
	}

	for range 1000 {
		cc.Update(0)
	}
	if got := cc.FollowOffset(); !got.ApproxEqualThreshold(mgl32.Vec2{8, -4}, 1e-3) {
		t.Errorf("offset after convergence = %v, want (8, -4)", got)
	}
	if got := cc.Position(); math32.Abs(got[0]-8) > 1e-3 || math32.Abs(got[1]+4) > 1e-3 {
		t.Errorf("Position() = %v, want x=8 y=-4", got)
	}
}

func TestControllerWithoutFollowIgnoresPointer(t *testing.T) {
	cc := NewCameraController()
	cc.SetPointer(mgl32.Vec2{1, 1})
	cc.Update(1)
	if got := cc.FollowOffset(); got != (mgl32.Vec2{}) {
		t.Errorf("FollowOffset() = %v, want zero", got)
	}
}

func TestCameraViewportSetsAspect(t *testing.T) {
	c := NewCamera(WithViewport(800, 400))
	if got := c.Aspect(); got != 2 {
		t.Errorf("Aspect() = %f, want 2", got)
	}
	c.SetViewport(0, 100)
	if w, h := c.Viewport(); w != 800 || h != 400 {
		t.Errorf("Viewport() = %dx%d after invalid resize, want 800x400", w, h)
	}
	c.SetViewport(300, 300)
	if got := c.Aspect(); got != 1 {
		t.Errorf("Aspect() = %f, want 1", got)
	}
}

func TestCameraProjectsTargetToCenter(t *testing.T) {
	ctrl := NewCameraController(WithPosition(mgl32.Vec3{0, 10, 35}))
	c := NewCamera(WithController(ctrl), WithFov(mgl32.DegToRad(45)), WithViewport(640, 480))

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	ndc := clip.Vec3().Mul(1 / clip[3])
	if math32.Abs(ndc[0]) > 1e-5 || math32.Abs(ndc[1]) > 1e-5 {
		t.Errorf("target projects to %v, want the viewport center", ndc)
	}
	if ndc[2] <= 0 || ndc[2] >= 1 {
		t.Errorf("target depth = %f, want within (0, 1)", ndc[2])
	}
}

func TestCameraUniformRoundTrip(t *testing.T) {
	ctrl := NewCameraController(WithPosition(mgl32.Vec3{1, 2, 3}))
	c := NewCamera(WithController(ctrl), WithViewport(320, 200))

	u := c.Uniform()
	buf := u.Marshal()
	if len(buf) != GPUCameraUniformSize || u.Size() != GPUCameraUniformSize {
		t.Fatalf("uniform size = %d (struct %d), want %d", len(buf), u.Size(), GPUCameraUniformSize)
	}
	viewProj, viewport := UnmarshalCameraUniform(buf)
	if !viewProj.ApproxEqual(c.ViewProjectionMatrix()) {
		t.Errorf("decoded view-projection differs from the camera's")
	}
	if viewport != (mgl32.Vec2{320, 200}) {
		t.Errorf("decoded viewport = %v, want (320, 200)", viewport)
	}
	if got := common.Vec3At(buf, 64); got != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("camera position = %v, want (1, 2, 3)", got)
	}
}
