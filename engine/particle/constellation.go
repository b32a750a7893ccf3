package particle

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/go-gl/mathgl/mgl32"
)

// Constellation is a static set of disjoint line segments over every k-th point of a field:
// points 0 and k form the first segment, 2k and 3k the second, and so on.
// It does not follow the field's drift or spin.
type Constellation struct {
	label   string
	points  []mgl32.Vec3
	color   common.Color
	opacity float32

	meshProvider      bind_group_provider.BindGroupProvider
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// NewConstellation pairs points 0, k, 2k, ... of a field into segments, where k is the
// field's Constellation stride. A trailing unpaired point is kept but not drawn.
//
// Parameters:
//   - f: the field to sample
//   - color: the line color
//   - opacity: the line opacity in [0, 1]
//
// Returns:
//   - *Constellation: the line set
//   - error: a ConfigurationError if the stride is not positive or selects fewer than two points
func NewConstellation(f Field, color common.Color, opacity float32) (*Constellation, error) {
	stride := f.Constellation()
	if stride <= 0 {
		return nil, &common.ConfigurationError{Field: "constellation", Reason: fmt.Sprintf("stride must be positive, got %d", stride)}
	}
	positions := f.Positions()
	points := make([]mgl32.Vec3, 0, f.Count()/stride+1)
	for i := 0; i < f.Count(); i += stride {
		points = append(points, mgl32.Vec3(positions[i*3:i*3+3]))
	}
	if len(points) < 2 {
		return nil, &common.ConfigurationError{Field: "constellation", Reason: "stride selects fewer than two points"}
	}

	label := f.Label() + " Constellation"
	return &Constellation{
		label:             label,
		points:            points,
		color:             color,
		opacity:           opacity,
		meshProvider:      bind_group_provider.NewBindGroupProvider(label + " Mesh"),
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(label),
	}, nil
}

// Points returns the sampled points in order.
func (c *Constellation) Points() []mgl32.Vec3 {
	return c.points
}

// SegmentCount returns the number of line segments.
func (c *Constellation) SegmentCount() int {
	return len(c.points) / 2
}

// Indices returns the line-list index pairs (2i, 2i+1) of every segment.
func (c *Constellation) Indices() []uint32 {
	indices := make([]uint32, 0, 2*c.SegmentCount())
	for i := range uint32(c.SegmentCount()) {
		indices = append(indices, 2*i, 2*i+1)
	}
	return indices
}

// Update is a no-op; the line set is static.
func (c *Constellation) Update(float64) {}

// Init registers the line pipeline and uploads the line set.
func (c *Constellation) Init(r renderer.Renderer) error {
	if err := r.RegisterPipelines(model.LinePipeline()); err != nil {
		return fmt.Errorf("failed to register line pipeline: %w", err)
	}
	indices := c.Indices()
	edges := &model.Edges{Positions: c.points, Indices: indices}
	if err := r.InitMeshBuffers(c.meshProvider, model.LineVertexData(edges), model.IndexData(indices), len(c.points), len(indices)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", c.label, err)
	}
	if err := r.InitBindGroup(c.bindGroupProvider, model.MeshBindGroupLayout()); err != nil {
		return fmt.Errorf("failed to create %s bind group: %w", c.label, err)
	}
	return nil
}

// Writes stages the line uniform upload for this frame.
func (c *Constellation) Writes() []bind_group_provider.BufferWrite {
	u := model.NewMeshUniform(mgl32.Ident4(), c.color, c.opacity, common.Color{})
	return []bind_group_provider.BufferWrite{
		bind_group_provider.UniformWrite(c.bindGroupProvider, u.Marshal()),
	}
}

// Draw issues the line set's draw call.
func (c *Constellation) Draw(r renderer.Renderer, scene renderer.SceneBindings) error {
	return r.DrawCall(model.LinePipelineKey, c.meshProvider, 1,
		[]bind_group_provider.BindGroupProvider{scene.Camera, c.bindGroupProvider})
}

// Release frees the line set's GPU resources. Calling it again is a no-op.
func (c *Constellation) Release() {
	c.bindGroupProvider.Release()
	c.meshProvider.Release()
}
