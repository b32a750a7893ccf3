package renderer

import (
	"encoding/binary"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/pipeline"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// screenVertex is a shaded vertex in pixel space. z is the [0,1] clip depth.
type screenVertex struct {
	x, y, z float32
	color   mgl32.Vec4
	size    float32
	visible bool
}

type primitiveKind int

const (
	primitivePoint primitiveKind = iota
	primitiveLine
	primitiveTriangle
)

type primitive struct {
	kind primitiveKind
	v    [3]screenVertex
}

// rasterState is the fixed-function state of one draw call.
type rasterState struct {
	depthTest  bool
	depthWrite bool
	blend      bool
	srcFactor  wgpu.BlendFactor
	dstFactor  wgpu.BlendFactor
}

func newRasterState(p pipeline.Pipeline) rasterState {
	st := rasterState{
		depthTest:  p.DepthTestEnabled(),
		depthWrite: p.DepthWriteEnabled(),
		blend:      p.BlendEnabled() && p.BlendState() != nil,
	}
	if st.blend {
		st.srcFactor = p.BlendState().Color.SrcFactor
		st.dstFactor = p.BlendState().Color.DstFactor
	}
	return st
}

// toScreen performs the perspective divide and viewport transform.
// Vertices behind the eye or outside the depth range are marked invisible.
func (b *rasterRendererBackend) toScreen(out pipeline.VertexOutput) screenVertex {
	w := out.Position[3]
	if w <= 1e-6 {
		return screenVertex{}
	}
	nx, ny, nz := out.Position[0]/w, out.Position[1]/w, out.Position[2]/w
	return screenVertex{
		x:       (nx + 1) * 0.5 * float32(b.width),
		y:       (1 - ny) * 0.5 * float32(b.height),
		z:       nz,
		color:   out.Color,
		size:    out.PointSize,
		visible: nz >= 0 && nz <= 1,
	}
}

func decodeIndices(data []byte, count int) []uint32 {
	count = min(count, len(data)/4)
	out := make([]uint32, count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return out
}

// assemble groups shaded vertices into primitives according to the pipeline's topology,
// dropping primitives with an invisible vertex and culled faces.
func assemble(p pipeline.Pipeline, verts []screenVertex, indices []uint32) []primitive {
	at := func(i int) (screenVertex, bool) {
		if indices != nil {
			if i >= len(indices) || int(indices[i]) >= len(verts) {
				return screenVertex{}, false
			}
			return verts[indices[i]], true
		}
		if i >= len(verts) {
			return screenVertex{}, false
		}
		return verts[i], true
	}
	n := len(verts)
	if indices != nil {
		n = len(indices)
	}

	var prims []primitive
	switch {
	case p.Sprites() || p.Topology() == wgpu.PrimitiveTopologyPointList:
		for i := range n {
			v, ok := at(i)
			if !ok || !v.visible {
				continue
			}
			if !p.Sprites() {
				v.size = 1
			}
			prims = append(prims, primitive{kind: primitivePoint, v: [3]screenVertex{v}})
		}
	case p.Topology() == wgpu.PrimitiveTopologyLineList:
		for i := 0; i+1 < n; i += 2 {
			a, okA := at(i)
			c, okC := at(i + 1)
			if !okA || !okC || !a.visible || !c.visible {
				continue
			}
			prims = append(prims, primitive{kind: primitiveLine, v: [3]screenVertex{a, c}})
		}
	default:
		for i := 0; i+2 < n; i += 3 {
			v0, ok0 := at(i)
			v1, ok1 := at(i + 1)
			v2, ok2 := at(i + 2)
			if !ok0 || !ok1 || !ok2 || !v0.visible || !v1.visible || !v2.visible {
				continue
			}
			if culled(p, v0, v1, v2) {
				continue
			}
			prims = append(prims, primitive{kind: primitiveTriangle, v: [3]screenVertex{v0, v1, v2}})
		}
	}
	return prims
}

// culled reports whether a triangle faces away under the pipeline's cull mode.
// Pixel space has y pointing down, which flips the winding seen in clip space.
func culled(p pipeline.Pipeline, v0, v1, v2 screenVertex) bool {
	if p.CullMode() == wgpu.CullModeNone {
		return false
	}
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	front := area < 0
	if p.FrontFace() == wgpu.FrontFaceCW {
		front = area > 0
	}
	switch p.CullMode() {
	case wgpu.CullModeBack:
		return !front
	case wgpu.CullModeFront:
		return front
	}
	return false
}

func edge(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// rasterize draws the part of a primitive that lies in rows [y0, y1).
func (b *rasterRendererBackend) rasterize(prim *primitive, st rasterState, y0, y1 int) {
	switch prim.kind {
	case primitivePoint:
		b.drawPoint(prim.v[0], st, y0, y1)
	case primitiveLine:
		b.drawLine(prim.v[0], prim.v[1], st, y0, y1)
	case primitiveTriangle:
		b.drawTriangle(prim.v[0], prim.v[1], prim.v[2], st, y0, y1)
	}
}

// drawPoint splats a disc of diameter v.size whose alpha falls off toward the rim.
func (b *rasterRendererBackend) drawPoint(v screenVertex, st rasterState, y0, y1 int) {
	r := math32.Max(v.size*0.5, 0.5)
	minY := max(y0, int(math32.Floor(v.y-r)))
	maxY := min(y1-1, int(math32.Ceil(v.y+r)))
	minX := max(0, int(math32.Floor(v.x-r)))
	maxX := min(b.width-1, int(math32.Ceil(v.x+r)))

	for py := minY; py <= maxY; py++ {
		for px := minX; px <= maxX; px++ {
			dx := float32(px) + 0.5 - v.x
			dy := float32(py) + 0.5 - v.y
			d2 := (dx*dx + dy*dy) / (r * r)
			if d2 > 1 {
				continue
			}
			c := v.color
			c[3] *= 1 - d2
			b.shade(py*b.width+px, v.z, c, st)
		}
	}
}

func (b *rasterRendererBackend) drawLine(a, c screenVertex, st rasterState, y0, y1 int) {
	dx, dy := c.x-a.x, c.y-a.y
	steps := int(math32.Ceil(math32.Max(math32.Abs(dx), math32.Abs(dy))))
	if steps == 0 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		px := int(a.x + dx*t)
		py := int(a.y + dy*t)
		if py < y0 || py >= y1 || px < 0 || px >= b.width {
			continue
		}
		z := a.z + (c.z-a.z)*t
		col := a.color.Mul(1 - t).Add(c.color.Mul(t))
		b.shade(py*b.width+px, z, col, st)
	}
}

func (b *rasterRendererBackend) drawTriangle(v0, v1, v2 screenVertex, st rasterState, y0, y1 int) {
	area := edge(v0.x, v0.y, v1.x, v1.y, v2.x, v2.y)
	if area == 0 {
		return
	}
	minY := max(y0, int(math32.Floor(math32.Min(v0.y, math32.Min(v1.y, v2.y)))))
	maxY := min(y1-1, int(math32.Ceil(math32.Max(v0.y, math32.Max(v1.y, v2.y)))))
	minX := max(0, int(math32.Floor(math32.Min(v0.x, math32.Min(v1.x, v2.x)))))
	maxX := min(b.width-1, int(math32.Ceil(math32.Max(v0.x, math32.Max(v1.x, v2.x)))))

	inv := 1 / area
	for py := minY; py <= maxY; py++ {
		cy := float32(py) + 0.5
		for px := minX; px <= maxX; px++ {
			cx := float32(px) + 0.5
			w0 := edge(v1.x, v1.y, v2.x, v2.y, cx, cy) * inv
			w1 := edge(v2.x, v2.y, v0.x, v0.y, cx, cy) * inv
			w2 := edge(v0.x, v0.y, v1.x, v1.y, cx, cy) * inv
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := v0.z*w0 + v1.z*w1 + v2.z*w2
			col := v0.color.Mul(w0).Add(v1.color.Mul(w1)).Add(v2.color.Mul(w2))
			b.shade(py*b.width+px, z, col, st)
		}
	}
}

// shade applies the depth test and blend equation for one fragment.
func (b *rasterRendererBackend) shade(i int, z float32, c mgl32.Vec4, st rasterState) {
	if st.depthTest && z >= b.depth[i] {
		return
	}
	if st.depthWrite {
		b.depth[i] = z
	}

	rgb := b.color[i*3 : i*3+3]
	if !st.blend {
		rgb[0], rgb[1], rgb[2] = c[0], c[1], c[2]
		return
	}
	sf := blendFactor(st.srcFactor, c[3])
	df := blendFactor(st.dstFactor, c[3])
	rgb[0] = c[0]*sf + rgb[0]*df
	rgb[1] = c[1]*sf + rgb[1]*df
	rgb[2] = c[2]*sf + rgb[2]*df
}

func blendFactor(f wgpu.BlendFactor, srcAlpha float32) float32 {
	switch f {
	case wgpu.BlendFactorZero:
		return 0
	case wgpu.BlendFactorSrcAlpha:
		return srcAlpha
	case wgpu.BlendFactorOneMinusSrcAlpha:
		return 1 - srcAlpha
	default:
		return 1
	}
}
