package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-backdrop/common"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

const testUniformSize = 16

// flatProgram passes clip-space positions through and colors every vertex with the group 0 uniform.
func flatProgram(vertex []byte, groups [][]byte) pipeline.VertexOutput {
	return pipeline.VertexOutput{
		Position:  common.Vec3At(vertex, 0).Vec4(1),
		Color:     common.Vec4At(groups[0], 0),
		PointSize: 4,
	}
}

func newFlatPipeline(key string, opts ...pipeline.PipelineBuilderOption) pipeline.Pipeline {
	vs := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, "",
		shader.WithVertexLayout(shader.Float32Layout(wgpu.VertexStepModeVertex, 0, 3)),
		shader.WithBindGroupLayout(0, shader.UniformLayout(key, testUniformSize, wgpu.ShaderStageVertex)),
	)
	fs := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, "")
	opts = append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithVertexProgram(flatProgram),
	}, opts...)
	return pipeline.NewPipeline(key, opts...)
}

func newTestRenderer(t *testing.T, surface *ImageSurface, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	if err := surface.Attach(); err != nil {
		t.Fatalf("Attach() error: %v", err)
	}
	opts = append([]RendererBuilderOption{WithRasterWorkers(2)}, opts...)
	r, err := NewRenderer(BackendTypeAuto, surface, opts...)
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	return r
}

// fullScreenTriangle covers the whole viewport at the given depth.
func fullScreenTriangle(z float32) []byte {
	buf := make([]byte, 36)
	common.PutFloat32s(buf, 0,
		-1, -1, z,
		3, -1, z,
		-1, 3, z,
	)
	return buf
}

func newColorGroup(t *testing.T, r Renderer, label string, c mgl32.Vec4) bind_group_provider.BindGroupProvider {
	t.Helper()
	g := bind_group_provider.NewBindGroupProvider(label)
	if err := r.InitBindGroup(g, shader.UniformLayout(label, testUniformSize, wgpu.ShaderStageVertex)); err != nil {
		t.Fatalf("InitBindGroup(%s) error: %v", label, err)
	}
	data := make([]byte, testUniformSize)
	common.PutFloat32s(data, 0, c[0], c[1], c[2], c[3])
	r.WriteBuffers([]bind_group_provider.BufferWrite{bind_group_provider.UniformWrite(g, data)})
	return g
}

func newTriangleMesh(t *testing.T, r Renderer, label string, z float32) bind_group_provider.BindGroupProvider {
	t.Helper()
	m := bind_group_provider.NewBindGroupProvider(label)
	if err := r.InitMeshBuffers(m, fullScreenTriangle(z), nil, 3, 0); err != nil {
		t.Fatalf("InitMeshBuffers(%s) error: %v", label, err)
	}
	return m
}

func TestNewRendererRejectsMissingOrUnsupportedSurface(t *testing.T) {
	tests := []struct {
		name    string
		backend RendererBackendType
		surface Surface
	}{
		{"nil surface", BackendTypeAuto, nil},
		{"wgpu on image surface", BackendTypeWGPU, NewImageSurface(4, 4)},
		{"zero sized surface", BackendTypeRaster, NewImageSurface(0, 4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(tt.backend, tt.surface)
			if !errors.Is(err, common.ErrSurfaceUnavailable) {
				t.Fatalf("NewRenderer() error = %v, want SurfaceUnavailableError", err)
			}
			if r != nil {
				t.Errorf("NewRenderer() returned a renderer alongside an error")
			}
		})
	}
}

func TestAutoBackendPicksRasterForImageSurface(t *testing.T) {
	r := newTestRenderer(t, NewImageSurface(4, 4))
	defer r.Release()
	if got := r.BackendType(); got != BackendTypeRaster {
		t.Errorf("BackendType() = %s, want raster", got)
	}
}

func TestRasterDrawWritesPixels(t *testing.T) {
	surface := NewImageSurface(8, 8)
	r := newTestRenderer(t, surface)
	defer r.Release()

	if err := r.RegisterPipelines(newFlatPipeline("flat")); err != nil {
		t.Fatalf("RegisterPipelines() error: %v", err)
	}
	mesh := newTriangleMesh(t, r, "tri", 0.5)
	defer mesh.Release()
	red := newColorGroup(t, r, "red", mgl32.Vec4{1, 0, 0, 1})
	defer red.Release()

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	if err := r.DrawCall("flat", mesh, 1, []bind_group_provider.BindGroupProvider{red}); err != nil {
		t.Fatalf("DrawCall() error: %v", err)
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	frame := surface.Frame()
	if frame == nil {
		t.Fatal("no frame presented")
	}
	px := frame.RGBAAt(4, 4)
	if px.R != 255 || px.G != 0 || px.B != 0 {
		t.Errorf("center pixel = %v, want opaque red", px)
	}
	if surface.Frames() != 1 {
		t.Errorf("Frames() = %d, want 1", surface.Frames())
	}
}

func TestRasterDepthTestKeepsNearestFragment(t *testing.T) {
	surface := NewImageSurface(4, 4)
	r := newTestRenderer(t, surface)
	defer r.Release()

	if err := r.RegisterPipelines(newFlatPipeline("flat")); err != nil {
		t.Fatalf("RegisterPipelines() error: %v", err)
	}
	far := newTriangleMesh(t, r, "far", 0.8)
	near := newTriangleMesh(t, r, "near", 0.2)
	mid := newTriangleMesh(t, r, "mid", 0.6)
	blue := newColorGroup(t, r, "blue", mgl32.Vec4{0, 0, 1, 1})
	red := newColorGroup(t, r, "red", mgl32.Vec4{1, 0, 0, 1})
	green := newColorGroup(t, r, "green", mgl32.Vec4{0, 1, 0, 1})
	defer func() {
		for _, p := range []bind_group_provider.BindGroupProvider{far, near, mid, blue, red, green} {
			p.Release()
		}
	}()

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	draws := []struct {
		mesh, color bind_group_provider.BindGroupProvider
	}{{far, blue}, {near, red}, {mid, green}}
	for _, d := range draws {
		if err := r.DrawCall("flat", d.mesh, 1, []bind_group_provider.BindGroupProvider{d.color}); err != nil {
			t.Fatalf("DrawCall(%s) error: %v", d.mesh.Label(), err)
		}
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	if px := surface.Frame().RGBAAt(1, 1); px.R != 255 || px.G != 0 || px.B != 0 {
		t.Errorf("pixel = %v, want the near red fragment", px)
	}
}

func TestRasterAdditiveBlendAccumulates(t *testing.T) {
	surface := NewImageSurface(4, 4)
	r := newTestRenderer(t, surface)
	defer r.Release()

	glow := newFlatPipeline("glow",
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithBlendEnabled(true),
		pipeline.WithBlendState(pipeline.AdditiveBlend()),
	)
	if err := r.RegisterPipelines(glow); err != nil {
		t.Fatalf("RegisterPipelines() error: %v", err)
	}
	mesh := newTriangleMesh(t, r, "tri", 0.5)
	defer mesh.Release()
	dim := newColorGroup(t, r, "dim", mgl32.Vec4{0.2, 0.2, 0.2, 1})
	defer dim.Release()

	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	for range 2 {
		if err := r.DrawCall("glow", mesh, 1, []bind_group_provider.BindGroupProvider{dim}); err != nil {
			t.Fatalf("DrawCall() error: %v", err)
		}
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}
	if err := r.Present(); err != nil {
		t.Fatalf("Present() error: %v", err)
	}

	// Two additive passes of 0.2 over black give 0.4, i.e. 102.
	if px := surface.Frame().RGBAAt(2, 2); px.R != 102 {
		t.Errorf("pixel red = %d, want 102", px.R)
	}
}

func TestRendererReleaseBalancesLedger(t *testing.T) {
	surface := NewImageSurface(4, 4)
	r := newTestRenderer(t, surface)

	if err := r.RegisterPipelines(newFlatPipeline("flat"), newFlatPipeline("flat")); err != nil {
		t.Fatalf("RegisterPipelines() error: %v", err)
	}
	mesh := newTriangleMesh(t, r, "tri", 0.5)
	group := newColorGroup(t, r, "color", mgl32.Vec4{1, 1, 1, 1})

	before := r.Stats()
	if before.Live() == 0 {
		t.Fatal("Stats().Live() = 0 before release, want live resources")
	}
	if before.LiveByKind[ResourceKindPipeline] != 1 {
		t.Errorf("live pipelines = %d, want 1 (duplicate key is skipped)", before.LiveByKind[ResourceKindPipeline])
	}

	mesh.Release()
	group.Release()
	// Providers forget what they released, so a second Release is not a double free.
	mesh.Release()
	group.Release()
	r.Release()
	r.Release()

	after := r.Stats()
	if after.Live() != 0 {
		t.Errorf("Stats().Live() = %d after release, want 0 (by kind: %v)", after.Live(), after.LiveByKind)
	}
	if after.DoubleReleased != 0 {
		t.Errorf("Stats().DoubleReleased = %d, want 0", after.DoubleReleased)
	}
}

func TestLedgerCountsDoubleRelease(t *testing.T) {
	l := newLedger()
	res := l.track(ResourceKindBuffer, "buf", &rasterBuffer{data: []byte{1}})
	res.Release()
	res.Release()

	s := l.stats()
	if s.Acquired != 1 || s.Released != 1 {
		t.Errorf("stats = %+v, want 1 acquired and 1 released", s)
	}
	if s.DoubleReleased != 1 {
		t.Errorf("DoubleReleased = %d, want 1", s.DoubleReleased)
	}
	if _, ok := handleOf[*rasterBuffer](res); ok {
		t.Errorf("handleOf returned a released resource")
	}
}

func TestDrawCallRequiresRegisteredPipeline(t *testing.T) {
	r := newTestRenderer(t, NewImageSurface(4, 4))
	defer r.Release()

	mesh := newTriangleMesh(t, r, "tri", 0.5)
	defer mesh.Release()
	if err := r.BeginFrame(); err != nil {
		t.Fatalf("BeginFrame() error: %v", err)
	}
	if err := r.DrawCall("missing", mesh, 1, nil); err == nil {
		t.Errorf("DrawCall(missing) error = nil, want error")
	}
	if err := r.EndFrame(); err != nil {
		t.Fatalf("EndFrame() error: %v", err)
	}
}

func TestImageSurfaceIsExclusive(t *testing.T) {
	s := NewImageSurface(2, 2)
	if err := s.Attach(); err != nil {
		t.Fatalf("first Attach() error: %v", err)
	}
	if err := s.Attach(); !errors.Is(err, common.ErrSurfaceUnavailable) {
		t.Errorf("second Attach() error = %v, want SurfaceUnavailableError", err)
	}
	s.Detach()
	if err := s.Attach(); err != nil {
		t.Errorf("Attach() after Detach error: %v", err)
	}
	s.Close()
	if err := s.Attach(); !errors.Is(err, common.ErrSurfaceUnavailable) {
		t.Errorf("Attach() after Close error = %v, want SurfaceUnavailableError", err)
	}
}
