package orbit

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/model"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

var groupCount atomic.Uint64

// groupImpl is the implementation of the Group interface.
type groupImpl struct {
	label     string
	bodies    []Body
	shape     model.Shape
	radius    float32
	detail    int
	wireframe bool
	opacity   float32
	emissive  float32

	model     model.Model
	providers []bind_group_provider.BindGroupProvider
}

// Group renders a set of bodies that share one shape and material. The mesh is uploaded once
// and drawn per body with that body's uniform.
type Group interface {
	// Label returns the group's debug label.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Bodies returns the group's bodies. Poses reflect the last Update.
	//
	// Returns:
	//   - []Body: the bodies
	Bodies() []Body

	// Model returns the shared body model.
	//
	// Returns:
	//   - model.Model: the model
	Model() model.Model

	// PipelineKey returns the pipeline the group draws with.
	//
	// Returns:
	//   - string: model.LitPipelineKey or model.LinePipelineKey
	PipelineKey() string

	// Update poses every body for elapsed time t.
	//
	// Parameters:
	//   - t: elapsed seconds
	Update(t float64)

	// Init registers the group's pipeline and uploads the mesh and per-body uniforms.
	//
	// Parameters:
	//   - r: the renderer to allocate with
	//
	// Returns:
	//   - error: an error if any allocation fails
	Init(r renderer.Renderer) error

	// Writes stages each body's uniform upload for this frame.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: one write per body
	Writes() []bind_group_provider.BufferWrite

	// Draw issues one draw call per body.
	//
	// Parameters:
	//   - r: the renderer, inside a frame
	//   - scene: the scene-wide bind groups; lit groups need Lights
	//
	// Returns:
	//   - error: the first draw call error
	Draw(r renderer.Renderer, scene renderer.SceneBindings) error

	// Release frees the mesh and every body uniform. Calling it again is a no-op.
	Release()
}

var _ Group = &groupImpl{}

// NewGroup builds the shared mesh for a set of spawned bodies.
//
// Parameters:
//   - bodies: the bodies, as returned by Spawn
//   - shape: the body shape
//   - options: functional options for size and material
//
// Returns:
//   - Group: the group
//   - error: a ConfigurationError for an empty body set, bad shape parameters or opacity
func NewGroup(bodies []Body, shape model.Shape, options ...GroupBuilderOption) (Group, error) {
	if len(bodies) == 0 {
		return nil, &common.ConfigurationError{Field: "bodies", Reason: "must not be empty"}
	}
	g := &groupImpl{
		bodies:  bodies,
		shape:   shape,
		radius:  1,
		opacity: 1,
	}
	for _, option := range options {
		option(g)
	}
	if g.opacity < 0 || g.opacity > 1 {
		return nil, &common.ConfigurationError{Field: "opacity", Reason: fmt.Sprintf("must be within [0, 1], got %g", g.opacity)}
	}
	if g.emissive < 0 {
		return nil, &common.ConfigurationError{Field: "emissive", Reason: "must not be negative"}
	}

	mesh, err := model.NewShape(shape, g.radius, g.detail)
	if err != nil {
		return nil, err
	}
	if g.label == "" {
		g.label = string(shape) + "_group_" + strconv.FormatUint(groupCount.Add(1), 10)
	}
	g.model = model.NewModel(mesh, model.WithName(g.label), model.WithWireframe(g.wireframe))
	g.providers = make([]bind_group_provider.BindGroupProvider, len(bodies))
	for i := range g.providers {
		g.providers[i] = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s Body %d", g.label, i))
	}
	return g, nil
}

func (g *groupImpl) Label() string {
	return g.label
}

func (g *groupImpl) Bodies() []Body {
	return g.bodies
}

func (g *groupImpl) Model() model.Model {
	return g.model
}

func (g *groupImpl) PipelineKey() string {
	if g.wireframe {
		return model.LinePipelineKey
	}
	return model.LitPipelineKey
}

func (g *groupImpl) Update(t float64) {
	Update(g.bodies, t)
}

func (g *groupImpl) Init(r renderer.Renderer) error {
	p := model.LitPipeline()
	if g.wireframe {
		p = model.LinePipeline()
	}
	if err := r.RegisterPipelines(p); err != nil {
		return fmt.Errorf("failed to register %s pipeline: %w", p.PipelineKey(), err)
	}
	if err := g.model.Init(r); err != nil {
		return fmt.Errorf("failed to upload %s: %w", g.label, err)
	}
	for _, provider := range g.providers {
		if err := r.InitBindGroup(provider, model.MeshBindGroupLayout()); err != nil {
			return fmt.Errorf("failed to create %s bind group: %w", provider.Label(), err)
		}
	}
	return nil
}

func (g *groupImpl) Writes() []bind_group_provider.BufferWrite {
	writes := make([]bind_group_provider.BufferWrite, len(g.bodies))
	for i := range g.bodies {
		b := &g.bodies[i]
		u := model.NewMeshUniform(b.ModelMatrix(), b.Color, g.opacity, b.Color.Scale(g.emissive))
		writes[i] = bind_group_provider.UniformWrite(g.providers[i], u.Marshal())
	}
	return writes
}

func (g *groupImpl) Draw(r renderer.Renderer, scene renderer.SceneBindings) error {
	key := g.PipelineKey()
	for i, provider := range g.providers {
		groups := []bind_group_provider.BindGroupProvider{scene.Camera, provider}
		if !g.wireframe {
			groups = append(groups, scene.Lights)
		}
		if err := r.DrawCall(key, g.model.MeshProvider(), 1, groups); err != nil {
			return fmt.Errorf("failed to draw %s body %d: %w", g.label, i, err)
		}
	}
	return nil
}

func (g *groupImpl) Release() {
	for _, provider := range g.providers {
		provider.Release()
	}
	g.model.Release()
}
