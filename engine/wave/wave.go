package wave

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var planeCount atomic.Uint64

// planeImpl is the implementation of the Plane interface.
type planeImpl struct {
	label      string
	width      float32
	height     float32
	resolution int

	colorA, colorB common.Color
	rotation       mgl32.Vec3
	position       mgl32.Vec3
	timeScale      float32
	amplitude      float32
	opacity        float32
	glow           float32

	vertices []float32
	indices  []uint32

	time float32

	meshProvider      bind_group_provider.BindGroupProvider
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Plane is a translucent grid whose height field is a function of rest position and time.
//
// The rest grid is immutable. Displacement along the plane normal is evaluated in the vertex
// stage from the scaled time in the uniform; Update only changes that time.
type Plane interface {
	// Label returns the plane's debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Resolution returns the number of vertices along each side.
	//
	// Returns:
	//   - int: the resolution
	Resolution() int

	// Size returns the rest extent of the plane.
	//
	// Returns:
	//   - width, height: the extent in world units
	Size() (width, height float32)

	// TimeScale returns the factor applied to elapsed time.
	//
	// Returns:
	//   - float32: the time scale
	TimeScale() float32

	// Vertices returns the rest vertex records: x, y, u, v per vertex. Callers must not modify it.
	//
	// Returns:
	//   - []float32: 4·Resolution² floats
	Vertices() []float32

	// Indices returns two counter-clockwise triangles per cell.
	//
	// Returns:
	//   - []uint32: 6·(Resolution-1)² indices
	Indices() []uint32

	// DisplacementAt evaluates the height field at a rest position and elapsed time.
	//
	// Parameters:
	//   - x, y: rest position
	//   - elapsed: unscaled elapsed seconds
	//
	// Returns:
	//   - float32: displacement along the plane normal
	DisplacementAt(x, y float32, elapsed float64) float32

	// ColorAt evaluates the unlit surface color at a texture coordinate.
	//
	// Parameters:
	//   - u, v: texture coordinate in [0, 1]
	//
	// Returns:
	//   - common.Color: the color before blending
	ColorAt(u, v float32) common.Color

	// ModelMatrix returns the plane's fixed orientation and placement.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// Update stores elapsed·TimeScale as the shading time.
	//
	// Parameters:
	//   - elapsed: elapsed seconds
	Update(elapsed float64)

	// Uniform returns the shading uniform for the last Update.
	//
	// Returns:
	//   - GPUWaveUniform: the uniform
	Uniform() GPUWaveUniform

	// Init registers the wave pipeline and uploads the grid.
	//
	// Parameters:
	//   - r: the renderer to allocate with
	//
	// Returns:
	//   - error: an error if any allocation fails
	Init(r renderer.Renderer) error

	// Writes stages the uniform upload for this frame.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: the staged writes
	Writes() []bind_group_provider.BufferWrite

	// Draw issues the plane's draw call.
	//
	// Parameters:
	//   - r: the renderer, inside a frame
	//   - scene: the scene-wide bind groups
	//
	// Returns:
	//   - error: an error if the draw call fails
	Draw(r renderer.Renderer, scene renderer.SceneBindings) error

	// Release frees the plane's GPU resources. Calling it again is a no-op.
	Release()
}

var _ Plane = &planeImpl{}

// Displacement is the wave height field:
//
//	(sin(0.5x + 0.6t) + cos(0.7y + 0.8t) + sin(0.3(x+y) + 0.4t)) · amplitude
//
// Parameters:
//   - x, y: rest position
//   - t: scaled time
//   - amplitude: height multiplier
//
// Returns:
//   - float32: the displacement
func Displacement(x, y, t, amplitude float32) float32 {
	w1 := math32.Sin(x*0.5 + t*0.6)
	w2 := math32.Cos(y*0.7 + t*0.8)
	w3 := math32.Sin((x+y)*0.3 + t*0.4)
	return (w1 + w2 + w3) * amplitude
}

// Generate builds a resolution × resolution grid spanning width × height in the rest plane.
//
// Parameters:
//   - width, height: rest extent, must be positive
//   - resolution: vertices per side, at least 2
//   - colorA: color at v = 0
//   - colorB: color at v = 1
//   - rotation: fixed Euler XYZ orientation in radians
//   - options: functional options for placement and shading
//
// Returns:
//   - Plane: the plane, updated to t = 0
//   - error: a ConfigurationError for any invalid argument
func Generate(width, height float32, resolution int, colorA, colorB common.Color, rotation mgl32.Vec3, options ...PlaneBuilderOption) (Plane, error) {
	if resolution < 2 {
		return nil, &common.ConfigurationError{Field: "resolution", Reason: fmt.Sprintf("must be at least 2, got %d", resolution)}
	}
	if width <= 0 || height <= 0 {
		return nil, &common.ConfigurationError{Field: "size", Reason: fmt.Sprintf("must be positive, got %gx%g", width, height)}
	}

	p := &planeImpl{
		width:      width,
		height:     height,
		resolution: resolution,
		colorA:     colorA,
		colorB:     colorB,
		rotation:   rotation,
		timeScale:  1,
		amplitude:  1.2,
		opacity:    0.5,
		glow:       0.25,
	}
	for _, option := range options {
		option(p)
	}
	if p.opacity < 0 || p.opacity > 1 {
		return nil, &common.ConfigurationError{Field: "opacity", Reason: fmt.Sprintf("must be within [0, 1], got %g", p.opacity)}
	}
	if p.label == "" {
		p.label = "wave_" + strconv.FormatUint(planeCount.Add(1), 10)
	}

	p.buildGrid()
	p.meshProvider = bind_group_provider.NewBindGroupProvider(p.label + " Mesh")
	p.bindGroupProvider = bind_group_provider.NewBindGroupProvider(p.label)
	p.Update(0)
	return p, nil
}

// buildGrid lays rows out top to bottom so v runs from 1 at the top edge to 0 at the bottom.
func (p *planeImpl) buildGrid() {
	n := p.resolution
	step := float32(n - 1)
	p.vertices = make([]float32, 0, 4*n*n)
	for j := range n {
		v := float32(j) / step
		for i := range n {
			u := float32(i) / step
			p.vertices = append(p.vertices, (u-0.5)*p.width, (0.5-v)*p.height, u, 1-v)
		}
	}

	p.indices = make([]uint32, 0, 6*(n-1)*(n-1))
	for j := range n - 1 {
		for i := range n - 1 {
			a := uint32(j*n + i)
			b := a + 1
			c := a + uint32(n)
			d := c + 1
			p.indices = append(p.indices, a, c, b, c, d, b)
		}
	}
}

func (p *planeImpl) Label() string {
	return p.label
}

func (p *planeImpl) Resolution() int {
	return p.resolution
}

func (p *planeImpl) Size() (float32, float32) {
	return p.width, p.height
}

func (p *planeImpl) TimeScale() float32 {
	return p.timeScale
}

func (p *planeImpl) Vertices() []float32 {
	return p.vertices
}

func (p *planeImpl) Indices() []uint32 {
	return p.indices
}

func (p *planeImpl) DisplacementAt(x, y float32, elapsed float64) float32 {
	return Displacement(x, y, float32(elapsed)*p.timeScale, p.amplitude)
}

func (p *planeImpl) ColorAt(u, v float32) common.Color {
	return shade(p.colorA, p.colorB, p.glow, u, v)
}

// shade is the surface color: a smoothstep gradient from a to b along v plus a glow band
// peaking at u = 0.5.
func shade(a, b common.Color, glow, u, v float32) common.Color {
	base := a.Lerp(b, common.Smoothstep(0, 1, v))
	band := 1 - math32.Abs(u-0.5)*2
	g := band * band * glow
	return common.Color{base[0] + g, base[1] + g, base[2] + g}
}

func (p *planeImpl) ModelMatrix() mgl32.Mat4 {
	return common.ModelMatrix(p.position, p.rotation, mgl32.Vec3{1, 1, 1})
}

func (p *planeImpl) Update(elapsed float64) {
	p.time = float32(elapsed) * p.timeScale
}

func (p *planeImpl) Uniform() GPUWaveUniform {
	return GPUWaveUniform{
		Model:  p.ModelMatrix(),
		ColorA: [4]float32{p.colorA[0], p.colorA[1], p.colorA[2], p.opacity},
		ColorB: [4]float32{p.colorB[0], p.colorB[1], p.colorB[2], 0},
		Params: [4]float32{p.time, p.amplitude, p.glow, 0},
	}
}

func (p *planeImpl) Init(r renderer.Renderer) error {
	if err := r.RegisterPipelines(Pipeline()); err != nil {
		return fmt.Errorf("failed to register wave pipeline: %w", err)
	}
	vertexData := append([]byte(nil), common.SliceToBytes(p.vertices)...)
	if err := r.InitMeshBuffers(p.meshProvider, vertexData, model.IndexData(p.indices), p.resolution*p.resolution, len(p.indices)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", p.label, err)
	}
	if err := r.InitBindGroup(p.bindGroupProvider, BindGroupLayout()); err != nil {
		return fmt.Errorf("failed to create %s bind group: %w", p.label, err)
	}
	return nil
}

func (p *planeImpl) Writes() []bind_group_provider.BufferWrite {
	u := p.Uniform()
	return []bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(p.bindGroupProvider, u.Marshal()),
	}
}

func (p *planeImpl) Draw(r renderer.Renderer, scene renderer.SceneBindings) error {
	return r.DrawCall(PipelineKey, p.meshProvider, 1,
		[]bind_group_provider.BindGroupProvider{scene.Camera, p.bindGroupProvider})
}

func (p *planeImpl) Release() {
	p.bindGroupProvider.Release()
	p.meshProvider.Release()
}
