package particle

import (
	"fmt"
	"math/rand"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Law selects how particle positions are distributed.
type Law string

const (
	// LawUniformCube draws each axis uniformly from [center-extent, center+extent).
	LawUniformCube Law = "uniform-cube"
	// LawSphericalShell draws a radius uniformly from [inner, outer) and a direction uniformly on the sphere.
	LawSphericalShell Law = "spherical-shell"
)

// ParseLaw validates a law name.
//
// Parameters:
//   - name: "uniform-cube" or "spherical-shell"
//
// Returns:
//   - Law: the law
//   - error: a ConfigurationError for any other name
func ParseLaw(name string) (Law, error) {
	switch Law(name) {
	case LawUniformCube, LawSphericalShell:
		return Law(name), nil
	}
	return "", &common.ConfigurationError{Field: "law", Reason: fmt.Sprintf("unknown spatial law %q", name)}
}

var fieldCount atomic.Uint64

// fieldImpl is the implementation of the Field interface.
type fieldImpl struct {
	label string
	count int
	law   Law
	seed  int64

	// generation parameters
	extent      mgl32.Vec3
	center      mgl32.Vec3
	innerRadius float32
	outerRadius float32
	minSize     float32
	maxSize     float32

	// shading parameters
	drift       float32
	pulse       float32
	sizeScale   float32
	opacity     float32
	glow        float32
	spin        mgl32.Vec3
	wobble      mgl32.Vec3
	wobbleRate  float32
	additive    bool
	constellate int

	positions []float32
	colors    []float32
	sizes     []float32

	time     float64
	rotation mgl32.Vec3

	meshProvider      bind_group_provider.BindGroupProvider
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Field is a fixed-size procedural point cloud.
//
// Its position, color and size buffers are generated once and never rewritten; per-frame motion
// (drift, pulse, spin) is computed in the vertex stage from the shading uniform, which is the only
// state Update changes.
type Field interface {
	// Label returns the field's debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Count returns the number of points.
	//
	// Returns:
	//   - int: the point count
	Count() int

	// Law returns the spatial law the positions were drawn from.
	//
	// Returns:
	//   - Law: the law
	Law() Law

	// Positions returns the 3·Count position components. Callers must not modify it.
	//
	// Returns:
	//   - []float32: x, y, z per point
	Positions() []float32

	// Colors returns the 3·Count color components in [0, 1]. Callers must not modify it.
	//
	// Returns:
	//   - []float32: r, g, b per point
	Colors() []float32

	// Sizes returns the Count point sizes. Callers must not modify it.
	//
	// Returns:
	//   - []float32: one size per point
	Sizes() []float32

	// Constellation returns the stride of the constellation line set, or 0 for none.
	//
	// Returns:
	//   - int: every k-th point is connected
	Constellation() int

	// Time returns the time of the last Update.
	//
	// Returns:
	//   - float64: elapsed seconds
	Time() float64

	// Rotation returns the field's Euler rotation at the last Update.
	//
	// Returns:
	//   - mgl32.Vec3: rotation in radians per axis
	Rotation() mgl32.Vec3

	// Update recomputes the shading uniform for time t. The point buffers are untouched.
	//
	// Parameters:
	//   - t: elapsed seconds
	Update(t float64)

	// Uniform returns the shading uniform for the last Update.
	//
	// Returns:
	//   - GPUParticleUniform: the uniform
	Uniform() GPUParticleUniform

	// PipelineKey returns the key of the pipeline the field draws with.
	//
	// Returns:
	//   - string: PipelineKeyAdditive or PipelineKeyAlpha
	PipelineKey() string

	// MeshProvider returns the provider holding the instance buffer.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// BindGroupProvider returns the provider holding the shading uniform.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Init registers the particle pipeline and uploads the point buffers.
	//
	// Parameters:
	//   - r: the renderer to allocate with
	//
	// Returns:
	//   - error: an error if any allocation fails
	Init(r renderer.Renderer) error

	// Writes stages the shading uniform upload for this frame.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the staged writes
	Writes() []bind_group_provider.BufferWrite

	// Draw issues the field's draw call.
	//
	// Parameters:
	//   - r: the renderer, inside a frame
	//   - scene: the scene-wide bind groups
	//
	// Returns:
	//   - error: an error if the draw call fails
	Draw(r renderer.Renderer, scene renderer.SceneBindings) error

	// Release frees the field's GPU resources. Calling it again is a no-op.
	Release()
}

var _ Field = &fieldImpl{}

// Generate builds a point cloud of count points.
// Every argument and option is validated before any buffer is allocated.
//
// Parameters:
//   - count: number of points, must be positive
//   - palette: non-empty ordered list of colors; a uniform draw u selects palette[floor(u·len)]
//   - law: the spatial law for positions
//   - options: functional options for extents, sizes, seed and shading
//
// Returns:
//   - Field: the generated field, updated to t = 0
//   - error: a ConfigurationError for any invalid argument
func Generate(count int, palette []common.Color, law Law, options ...FieldBuilderOption) (Field, error) {
	if count <= 0 {
		return nil, &common.ConfigurationError{Field: "count", Reason: fmt.Sprintf("must be positive, got %d", count)}
	}
	if len(palette) == 0 {
		return nil, &common.ConfigurationError{Field: "palette", Reason: "palette must contain at least one color"}
	}
	if _, err := ParseLaw(string(law)); err != nil {
		return nil, err
	}

	f := &fieldImpl{
		count:       count,
		law:         law,
		seed:        1,
		extent:      mgl32.Vec3{100, 100, 100},
		innerRadius: 50,
		outerRadius: 80,
		minSize:     1,
		maxSize:     4,
		sizeScale:   300,
		opacity:     0.8,
		additive:    true,
	}
	for _, option := range options {
		option(f)
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	if f.label == "" {
		f.label = "particles_" + strconv.FormatUint(fieldCount.Add(1), 10)
	}

	f.generate(palette)
	f.meshProvider = bind_group_provider.NewBindGroupProvider(f.label + " Instances")
	f.bindGroupProvider = bind_group_provider.NewBindGroupProvider(f.label)
	f.Update(0)
	return f, nil
}

func (f *fieldImpl) validate() error {
	// comparisons are negated so NaN fails them
	for i := range 3 {
		if !(f.extent[i] >= 0) || math32.IsInf(f.extent[i], 0) {
			return &common.ConfigurationError{Field: "extent", Reason: fmt.Sprintf("extents must be finite and not negative, got %v", f.extent)}
		}
		if math32.IsNaN(f.center[i]) || math32.IsInf(f.center[i], 0) {
			return &common.ConfigurationError{Field: "center", Reason: fmt.Sprintf("must be finite, got %v", f.center)}
		}
	}
	switch {
	case !(f.minSize > 0):
		return &common.ConfigurationError{Field: "size", Reason: fmt.Sprintf("minimum must be positive, got %g", f.minSize)}
	case !(f.maxSize >= f.minSize) || math32.IsInf(f.maxSize, 0):
		return &common.ConfigurationError{Field: "size", Reason: fmt.Sprintf("maximum %g is below minimum %g", f.maxSize, f.minSize)}
	case !(f.innerRadius >= 0) || !(f.outerRadius >= f.innerRadius) || math32.IsInf(f.outerRadius, 0):
		return &common.ConfigurationError{Field: "radius", Reason: fmt.Sprintf("invalid shell [%g, %g)", f.innerRadius, f.outerRadius)}
	case !(f.sizeScale > 0):
		return &common.ConfigurationError{Field: "size_scale", Reason: "must be positive"}
	case !(f.opacity >= 0 && f.opacity <= 1):
		return &common.ConfigurationError{Field: "opacity", Reason: fmt.Sprintf("must be within [0, 1], got %g", f.opacity)}
	case f.constellate < 0:
		return &common.ConfigurationError{Field: "constellation", Reason: "stride must not be negative"}
	}
	return nil
}

// generate fills the point buffers. Per point the draws are: position, color bucket, size.
func (f *fieldImpl) generate(palette []common.Color) {
	rng := common.NewRand(f.seed)
	f.positions = make([]float32, 3*f.count)
	f.colors = make([]float32, 3*f.count)
	f.sizes = make([]float32, f.count)

	for i := range f.count {
		p := f.samplePosition(rng)
		copy(f.positions[i*3:], p[:])

		bucket := min(int(rng.Float64()*float64(len(palette))), len(palette)-1)
		copy(f.colors[i*3:], palette[bucket][:])

		f.sizes[i] = common.Uniform(rng, f.minSize, f.maxSize)
	}
}

func (f *fieldImpl) samplePosition(rng *rand.Rand) mgl32.Vec3 {
	if f.law == LawSphericalShell {
		radius := common.Uniform(rng, f.innerRadius, f.outerRadius)
		theta := rng.Float32() * 2 * math32.Pi
		phi := math32.Acos(rng.Float32()*2 - 1)
		return f.center.Add(mgl32.Vec3{
			radius * math32.Sin(phi) * math32.Cos(theta),
			radius * math32.Sin(phi) * math32.Sin(theta),
			radius * math32.Cos(phi),
		})
	}
	return f.center.Add(common.UniformVec(rng, f.extent))
}

func (f *fieldImpl) Label() string {
	return f.label
}

func (f *fieldImpl) Count() int {
	return f.count
}

func (f *fieldImpl) Law() Law {
	return f.law
}

func (f *fieldImpl) Positions() []float32 {
	return f.positions
}

func (f *fieldImpl) Colors() []float32 {
	return f.colors
}

func (f *fieldImpl) Sizes() []float32 {
	return f.sizes
}

func (f *fieldImpl) Constellation() int {
	return f.constellate
}

func (f *fieldImpl) Time() float64 {
	return f.time
}

func (f *fieldImpl) Rotation() mgl32.Vec3 {
	return f.rotation
}

func (f *fieldImpl) Update(t float64) {
	tf := float32(t)
	wobble := math32.Sin(f.wobbleRate * tf)
	f.time = t
	f.rotation = f.spin.Mul(tf).Add(f.wobble.Mul(wobble))
}

func (f *fieldImpl) Uniform() GPUParticleUniform {
	return GPUParticleUniform{
		Model:   common.ModelMatrix(mgl32.Vec3{}, f.rotation, mgl32.Vec3{1, 1, 1}),
		Params:  [4]float32{float32(f.time), f.drift, f.pulse, f.sizeScale},
		Params2: [4]float32{f.opacity, f.glow, ReferenceHeight, 0},
	}
}

func (f *fieldImpl) PipelineKey() string {
	if f.additive {
		return PipelineKeyAdditive
	}
	return PipelineKeyAlpha
}

func (f *fieldImpl) MeshProvider() bind_group_provider.BindGroupProvider {
	return f.meshProvider
}

func (f *fieldImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return f.bindGroupProvider
}

func (f *fieldImpl) Init(r renderer.Renderer) error {
	if err := r.RegisterPipelines(Pipeline(f.additive)); err != nil {
		return fmt.Errorf("failed to register particle pipeline: %w", err)
	}
	if err := r.InitMeshBuffers(f.meshProvider, InstanceData(f), nil, f.count, 0); err != nil {
		return fmt.Errorf("failed to upload %s: %w", f.label, err)
	}
	if err := r.InitBindGroup(f.bindGroupProvider, BindGroupLayout()); err != nil {
		return fmt.Errorf("failed to create %s bind group: %w", f.label, err)
	}
	return nil
}

func (f *fieldImpl) Writes() []bind_group_provider.BufferWrite {
	u := f.Uniform()
	return []bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(f.bindGroupProvider, u.Marshal()),
	}
}

func (f *fieldImpl) Draw(r renderer.Renderer, scene renderer.SceneBindings) error {
	return r.DrawCall(f.PipelineKey(), f.meshProvider, 1,
		[]bind_group_provider.BindGroupProvider{scene.Camera, f.bindGroupProvider})
}

func (f *fieldImpl) Release() {
	f.bindGroupProvider.Release()
	f.meshProvider.Release()
}
