package orbit

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxBodies is the largest group Spawn accepts.
const MaxBodies = 12

// Motion holds the periodic terms shared by every body of a group.
type Motion struct {
	Center         mgl32.Vec3 // orbit center
	DepthAmplitude float32    // z oscillation amplitude
	DepthRate      float32    // z oscillation rate in rad/s
	PulseAmplitude float32    // scale oscillation amplitude
	PulseRate      float32    // scale oscillation rate in rad/s
}

// Pose is a body's transient transform.
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    float32
}

// Body is one orbiting body. Everything except Pose is fixed at Spawn.
type Body struct {
	BaseAngle     float32    // starting orbit angle, 2πi/n
	Radius        float32    // orbit radius
	Speed         float32    // orbit speed in rad/s
	RotationSpeed mgl32.Vec3 // spin in rad/s per axis
	BaseScale     float32
	Depth         float32 // z origin relative to the orbit center
	Phase         float32
	Color         common.Color
	Motion        Motion

	Pose Pose
}

// PoseAt evaluates the body's pose at elapsed time t. It reads nothing but t and the body's
// fixed parameters.
//
// Parameters:
//   - t: elapsed seconds
//
// Returns:
//   - Pose: the pose
func (b *Body) PoseAt(t float64) Pose {
	tf := float32(t)
	angle := b.BaseAngle + tf*b.Speed
	m := b.Motion
	return Pose{
		Position: mgl32.Vec3{
			m.Center[0] + math32.Cos(angle)*b.Radius,
			m.Center[1] + math32.Sin(angle)*b.Radius,
			m.Center[2] + b.Depth + m.DepthAmplitude*math32.Sin(tf*m.DepthRate+b.Phase),
		},
		Rotation: b.RotationSpeed.Mul(tf),
		Scale:    b.BaseScale + m.PulseAmplitude*math32.Sin(tf*m.PulseRate+b.Phase),
	}
}

// ModelMatrix returns the model matrix of the body's current pose.
func (b *Body) ModelMatrix() mgl32.Mat4 {
	s := b.Pose.Scale
	return common.ModelMatrix(b.Pose.Position, b.Pose.Rotation, mgl32.Vec3{s, s, s})
}

// Update recomputes every body's pose for elapsed time t.
//
// Parameters:
//   - bodies: the bodies to pose
//   - t: elapsed seconds
func Update(bodies []Body, t float64) {
	for i := range bodies {
		bodies[i].Pose = bodies[i].PoseAt(t)
	}
}

// Spawn draws n bodies spread evenly around the orbit from a seeded generator and poses them at t = 0.
//
// Parameters:
//   - n: the number of bodies, 1 through MaxBodies
//   - colorCycle: colors assigned round-robin by body index
//   - options: functional options for the parameter ranges
//
// Returns:
//   - []Body: the bodies
//   - error: a ConfigurationError for an invalid count, empty cycle, inverted range or oversized pulse
func Spawn(n int, colorCycle []common.Color, options ...SpawnOption) ([]Body, error) {
	if n < 1 || n > MaxBodies {
		return nil, &common.ConfigurationError{Field: "count", Reason: fmt.Sprintf("must be within [1, %d], got %d", MaxBodies, n)}
	}
	if len(colorCycle) == 0 {
		return nil, &common.ConfigurationError{Field: "colors", Reason: "must not be empty"}
	}

	cfg := &spawnConfig{
		seed:      1,
		radius:    [2]float32{35, 50},
		speed:     [2]float32{0.01, 0.03},
		scale:     [2]float32{1, 1},
		depth:     [2]float32{-20, 20},
		pulseRate: 2,
	}
	for _, option := range options {
		option(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rng := common.NewRand(cfg.seed)
	bodies := make([]Body, n)
	for i := range bodies {
		b := &bodies[i]
		b.BaseAngle = 2 * math32.Pi * float32(i) / float32(n)
		b.Radius = common.Uniform(rng, cfg.radius[0], cfg.radius[1])
		b.Speed = common.Uniform(rng, cfg.speed[0], cfg.speed[1])
		b.RotationSpeed = common.UniformVec(rng, cfg.rotationSpeed)
		b.BaseScale = common.Uniform(rng, cfg.scale[0], cfg.scale[1])
		b.Depth = common.Uniform(rng, cfg.depth[0], cfg.depth[1])
		b.Phase = float32(i) + cfg.phaseOffset
		b.Color = colorCycle[i%len(colorCycle)]
		b.Motion = Motion{
			Center:         cfg.center,
			DepthAmplitude: cfg.depthAmplitude,
			DepthRate:      cfg.depthRate,
			PulseAmplitude: cfg.pulseAmplitude,
			PulseRate:      cfg.pulseRate,
		}
	}
	Update(bodies, 0)
	return bodies, nil
}

type spawnConfig struct {
	seed          int64
	radius        [2]float32
	speed         [2]float32
	rotationSpeed mgl32.Vec3
	scale         [2]float32
	depth         [2]float32
	phaseOffset   float32

	center         mgl32.Vec3
	depthAmplitude float32
	depthRate      float32
	pulseAmplitude float32
	pulseRate      float32
}

func (c *spawnConfig) validate() error {
	ranges := []struct {
		field string
		r     [2]float32
	}{
		{"radius", c.radius},
		{"speed", c.speed},
		{"scale", c.scale},
		{"depth", c.depth},
	}
	for _, rg := range ranges {
		if rg.r[1] < rg.r[0] {
			return &common.ConfigurationError{Field: rg.field, Reason: fmt.Sprintf("max %g is below min %g", rg.r[1], rg.r[0])}
		}
	}
	if c.radius[0] < 0 {
		return &common.ConfigurationError{Field: "radius", Reason: "must not be negative"}
	}
	if c.scale[0] <= 0 {
		return &common.ConfigurationError{Field: "scale", Reason: "must be positive"}
	}
	// a pulse reaching the base scale collapses or inverts the body
	if math32.Abs(c.pulseAmplitude) >= c.scale[0] {
		return &common.ConfigurationError{Field: "pulse", Reason: fmt.Sprintf("amplitude %g must stay below the minimum scale %g", c.pulseAmplitude, c.scale[0])}
	}
	return nil
}
