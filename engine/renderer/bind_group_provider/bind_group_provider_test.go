package bind_group_provider

import "testing"

type countingResource struct {
	releases int
}

func (c *countingResource) Release() {
	c.releases++
}

func TestProviderReleaseOnce(t *testing.T) {
	bg := &countingResource{}
	uniform := &countingResource{}
	vertex := &countingResource{}
	index := &countingResource{}

	p := NewBindGroupProvider("test", WithBindGroup(bg), WithBuffer(0, uniform))
	p.SetVertexBuffer(vertex)
	p.SetIndexBuffer(index)
	p.SetVertexCount(4)
	p.SetIndexCount(6)

	if !p.Initialized() {
		t.Fatalf("Initialized() = false with resources attached")
	}

	p.Release()
	p.Release()

	for name, r := range map[string]*countingResource{"bind group": bg, "uniform": uniform, "vertex": vertex, "index": index} {
		if r.releases != 1 {
			t.Errorf("%s released %d times, want 1", name, r.releases)
		}
	}
	if p.Initialized() || p.VertexCount() != 0 || p.IndexCount() != 0 {
		t.Errorf("provider still reports resources after Release")
	}
}

func TestUniformWrite(t *testing.T) {
	p := NewBindGroupProvider("camera")
	w := UniformWrite(p, []byte{1, 2, 3, 4})
	if w.Provider != p || w.Binding != 0 || w.Offset != 0 || len(w.Data) != 4 {
		t.Errorf("UniformWrite() = %+v", w)
	}
}
