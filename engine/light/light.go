package light

import (
	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// IntensityFloor is the lowest intensity a pulsing light can reach.
const IntensityFloor float32 = 0.05

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	color      common.Color
	intensity  float32
	lightRange float32

	center         mgl32.Vec3
	radius         mgl32.Vec3
	rate           float32
	depthRate      float32
	phase          float32
	pulseRate      float32
	pulseAmplitude float32

	// mutable pose, recomputed by Update
	position         mgl32.Vec3
	currentIntensity float32
}

// Light defines the interface for a colored point light that moves along a periodic trajectory.
//
// The immutable parameters (color, base intensity, range, center, trajectory and pulse) are
// fixed at construction. Position and intensity are recomputed from elapsed time by Update;
// evaluating the same time twice yields the same pose.
//
// For light i at time t, with θ = t·rate + phase:
//
//	x = cx + sin(θ)·rx
//	y = cy + cos(θ)·ry
//	z = cz + sin(t·depthRate + phase)·rz
//	intensity = max(IntensityFloor, base + sin(t·pulseRate + i)·pulseAmplitude)
type Light interface {
	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - common.Color: the light color
	Color() common.Color

	// BaseIntensity returns the intensity the pulse oscillates around.
	//
	// Returns:
	//   - float32: the base intensity
	BaseIntensity() float32

	// Range returns the distance at which the light's contribution reaches zero.
	//
	// Returns:
	//   - float32: the range
	Range() float32

	// Center returns the trajectory center.
	//
	// Returns:
	//   - mgl32.Vec3: the center
	Center() mgl32.Vec3

	// Position returns the position computed by the last Update.
	//
	// Returns:
	//   - mgl32.Vec3: world-space position
	Position() mgl32.Vec3

	// Intensity returns the intensity computed by the last Update.
	//
	// Returns:
	//   - float32: the current intensity, never below IntensityFloor
	Intensity() float32

	// Evaluate computes the pose at time t without storing it.
	//
	// Parameters:
	//   - t: elapsed seconds
	//   - index: the light's index within its rig, used as the pulse phase
	//
	// Returns:
	//   - mgl32.Vec3: the position
	//   - float32: the intensity
	Evaluate(t float64, index int) (mgl32.Vec3, float32)

	// Update recomputes and stores the pose for time t.
	//
	// Parameters:
	//   - t: elapsed seconds
	//   - index: the light's index within its rig
	Update(t float64, index int)
}

var _ Light = &lightImpl{}

// NewLight creates a white, static point light with unit intensity and any provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		color:      common.White,
		intensity:  1.0,
		lightRange: 200.0,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.Update(0, 0)
	return l
}

func (l *lightImpl) Color() common.Color {
	return l.color
}

func (l *lightImpl) BaseIntensity() float32 {
	return l.intensity
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Center() mgl32.Vec3 {
	return l.center
}

func (l *lightImpl) Position() mgl32.Vec3 {
	return l.position
}

func (l *lightImpl) Intensity() float32 {
	return l.currentIntensity
}

func (l *lightImpl) Evaluate(t float64, index int) (mgl32.Vec3, float32) {
	tf := float32(t)
	theta := tf*l.rate + l.phase
	pos := mgl32.Vec3{
		l.center[0] + math32.Sin(theta)*l.radius[0],
		l.center[1] + math32.Cos(theta)*l.radius[1],
		l.center[2] + math32.Sin(tf*l.depthRate+l.phase)*l.radius[2],
	}
	intensity := l.intensity + math32.Sin(tf*l.pulseRate+float32(index))*l.pulseAmplitude
	return pos, math32.Max(IntensityFloor, intensity)
}

func (l *lightImpl) Update(t float64, index int) {
	l.position, l.currentIntensity = l.Evaluate(t, index)
}
