package light

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

var rigCount atomic.Uint64

type rigImpl struct {
	lights           []Light
	ambient          common.Color
	ambientIntensity float32

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Rig is a fixed set of at most MaxLights point lights plus an ambient term.
// Lit pipelines bind its uniform at group 2.
type Rig interface {
	// Lights returns the rig's lights in spawn order.
	//
	// Returns:
	//   - []Light: the lights
	Lights() []Light

	// Ambient returns the ambient color and intensity.
	//
	// Returns:
	//   - common.Color: the ambient color
	//   - float32: the ambient intensity
	Ambient() (common.Color, float32)

	// Update recomputes every light's position and intensity for time t.
	//
	// Parameters:
	//   - t: elapsed seconds
	Update(t float64)

	// Uniform returns the GPU uniform for the last Update.
	//
	// Returns:
	//   - GPULightsUniform: the uniform
	Uniform() GPULightsUniform

	// BindGroupProvider returns the provider holding the lights uniform.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Init creates the lights uniform buffer and bind group.
	//
	// Parameters:
	//   - r: the renderer to allocate with
	//
	// Returns:
	//   - error: an error if allocation fails
	Init(r renderer.Renderer) error

	// Writes stages the uniform upload for this frame.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the staged writes
	Writes() []bind_group_provider.BufferWrite

	// Release frees the rig's GPU resources. Calling it again is a no-op.
	Release()
}

var _ Rig = &rigImpl{}

// Spawn validates a set of lights and assembles them into a Rig.
//
// Parameters:
//   - lights: at most MaxLights lights, each with a positive base intensity and range
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the rig, updated to t = 0
//   - error: a ConfigurationError if the set is too large or a light is invalid
func Spawn(lights []Light, options ...RigBuilderOption) (Rig, error) {
	if len(lights) > MaxLights {
		return nil, &common.ConfigurationError{
			Field:  "lights",
			Reason: fmt.Sprintf("at most %d lights are supported, got %d", MaxLights, len(lights)),
		}
	}
	for i, l := range lights {
		if l.BaseIntensity() <= 0 {
			return nil, &common.ConfigurationError{
				Field:  fmt.Sprintf("lights[%d].intensity", i),
				Reason: fmt.Sprintf("must be positive, got %g", l.BaseIntensity()),
			}
		}
		if l.Range() <= 0 {
			return nil, &common.ConfigurationError{
				Field:  fmt.Sprintf("lights[%d].range", i),
				Reason: fmt.Sprintf("must be positive, got %g", l.Range()),
			}
		}
	}

	r := &rigImpl{
		lights:           append([]Light(nil), lights...),
		ambient:          common.White,
		ambientIntensity: 0.4,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"lights_" + strconv.FormatUint(rigCount.Add(1), 10),
		),
	}
	for _, option := range options {
		option(r)
	}
	r.Update(0)
	return r, nil
}

func (r *rigImpl) Lights() []Light {
	return r.lights
}

func (r *rigImpl) Ambient() (common.Color, float32) {
	return r.ambient, r.ambientIntensity
}

func (r *rigImpl) Update(t float64) {
	for i, l := range r.lights {
		l.Update(t, i)
	}
}

func (r *rigImpl) Uniform() GPULightsUniform {
	ambient := r.ambient.Scale(r.ambientIntensity)
	u := GPULightsUniform{
		Ambient: [4]float32{ambient[0], ambient[1], ambient[2], 1},
		Count:   uint32(len(r.lights)),
	}
	for i, l := range r.lights {
		u.Lights[i] = GPUPointLight{
			Position:  l.Position(),
			Range:     l.Range(),
			Color:     l.Color(),
			Intensity: l.Intensity(),
		}
	}
	return u
}

func (r *rigImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return r.bindGroupProvider
}

func (r *rigImpl) Init(rnd renderer.Renderer) error {
	return rnd.InitBindGroup(r.bindGroupProvider, BindGroupLayout())
}

func (r *rigImpl) Writes() []bind_group_provider.BufferWrite {
	u := r.Uniform()
	return []bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(r.bindGroupProvider, u.Marshal()),
	}
}

func (r *rigImpl) Release() {
	r.bindGroupProvider.Release()
}
