package camera

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	base     mgl32.Vec3
	target   mgl32.Vec3
	position mgl32.Vec3

	// Drift: axis k moves by amplitude[k]·sin(rate[k]·t), except y which uses cos so that
	// equal x/y rates trace a circle.
	driftAmplitude mgl32.Vec3
	driftRate      mgl32.Vec3

	// Follow: offset += (pointer·strength - offset)·smoothing, once per Update.
	followStrength  float32
	followSmoothing float32
	pointer         mgl32.Vec2
	offset          mgl32.Vec2
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller at (0, 0, 50) looking at the origin with drift and
// pointer follow disabled.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:   &sync.Mutex{},
		base: mgl32.Vec3{0, 0, 50},
	}

	for _, option := range options {
		option(cc)
	}

	cc.updatePosition(0)
	return cc
}

// updatePosition recomputes position from base, drift and the follow offset.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition(t float64) {
	tf := float32(t)
	cc.position = mgl32.Vec3{
		cc.base[0] + cc.driftAmplitude[0]*math32.Sin(cc.driftRate[0]*tf) + cc.offset[0],
		cc.base[1] + cc.driftAmplitude[1]*math32.Cos(cc.driftRate[1]*tf) + cc.offset[1],
		cc.base[2] + cc.driftAmplitude[2]*math32.Sin(cc.driftRate[2]*tf),
	}
}

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetPosition(p mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.base = p
	cc.position = p
}

func (cc *cameraControllerImpl) SetTarget(t mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
}

func (cc *cameraControllerImpl) SetPointer(ndc mgl32.Vec2) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pointer = ndc
}

func (cc *cameraControllerImpl) Pointer() mgl32.Vec2 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pointer
}

func (cc *cameraControllerImpl) FollowOffset() mgl32.Vec2 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.offset
}

func (cc *cameraControllerImpl) Update(t float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	goal := cc.pointer.Mul(cc.followStrength)
	cc.offset = cc.offset.Add(goal.Sub(cc.offset).Mul(cc.followSmoothing))
	cc.updatePosition(t)
}
