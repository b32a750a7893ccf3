package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-backdrop/engine/renderer/bind_group_provider"
)

// ResourceKind classifies the backend objects counted by the resource ledger.
type ResourceKind int

const (
	// ResourceKindContext covers instance, adapter, device, queue, surface and worker pools.
	ResourceKindContext ResourceKind = iota
	// ResourceKindBuffer covers vertex, index and uniform buffers.
	ResourceKindBuffer
	// ResourceKindBindGroup covers bind groups.
	ResourceKindBindGroup
	// ResourceKindLayout covers bind group layouts and pipeline layouts.
	ResourceKindLayout
	// ResourceKindShaderModule covers compiled shader modules.
	ResourceKindShaderModule
	// ResourceKindPipeline covers render pipelines.
	ResourceKindPipeline
	// ResourceKindTexture covers render target textures and views.
	ResourceKindTexture
)

// String returns the ledger name of the kind.
func (k ResourceKind) String() string {
	switch k {
	case ResourceKindContext:
		return "context"
	case ResourceKindBuffer:
		return "buffer"
	case ResourceKindBindGroup:
		return "bind_group"
	case ResourceKindLayout:
		return "layout"
	case ResourceKindShaderModule:
		return "shader_module"
	case ResourceKindPipeline:
		return "pipeline"
	case ResourceKindTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// LedgerStats is a snapshot of the resource ledger.
type LedgerStats struct {
	// Acquired is the number of resources ever handed out.
	Acquired int
	// Released is the number of resources released for the first time.
	Released int
	// DoubleReleased counts Release calls on resources that were already released.
	DoubleReleased int
	// LiveByKind counts acquired-but-unreleased resources per kind.
	LiveByKind map[ResourceKind]int
}

// Live returns the number of resources acquired and not yet released.
//
// Returns:
//   - int: Acquired - Released
func (s LedgerStats) Live() int {
	return s.Acquired - s.Released
}

// ledger counts every backend resource a renderer acquires and releases.
type ledger struct {
	mu *sync.Mutex

	acquired map[ResourceKind]int
	released map[ResourceKind]int
	double   int
}

func newLedger() *ledger {
	return &ledger{
		mu:       &sync.Mutex{},
		acquired: make(map[ResourceKind]int),
		released: make(map[ResourceKind]int),
	}
}

// track wraps a backend handle so that its release is recorded.
// handle may be nil for resources that have no backend object to free.
func (l *ledger) track(kind ResourceKind, label string, handle bind_group_provider.Resource) *trackedResource {
	l.mu.Lock()
	l.acquired[kind]++
	l.mu.Unlock()
	return &trackedResource{
		ledger: l,
		kind:   kind,
		label:  label,
		handle: handle,
	}
}

func (l *ledger) stats() LedgerStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := LedgerStats{
		DoubleReleased: l.double,
		LiveByKind:     make(map[ResourceKind]int),
	}
	for kind, n := range l.acquired {
		s.Acquired += n
		if live := n - l.released[kind]; live > 0 {
			s.LiveByKind[kind] = live
		}
	}
	for _, n := range l.released {
		s.Released += n
	}
	return s
}

// trackedResource is a ledger-counted wrapper around a backend object.
type trackedResource struct {
	ledger   *ledger
	kind     ResourceKind
	label    string
	handle   bind_group_provider.Resource
	released bool
}

var _ bind_group_provider.Resource = &trackedResource{}

func (t *trackedResource) Release() {
	t.ledger.mu.Lock()
	if t.released {
		t.ledger.double++
		t.ledger.mu.Unlock()
		return
	}
	t.released = true
	t.ledger.released[t.kind]++
	t.ledger.mu.Unlock()

	if t.handle != nil {
		t.handle.Release()
	}
}

// handleOf unwraps a tracked resource and asserts the backend type of its handle.
func handleOf[T any](r bind_group_provider.Resource) (T, bool) {
	if t, ok := r.(*trackedResource); ok {
		if t.released {
			var zero T
			return zero, false
		}
		r = t.handle
	}
	v, ok := r.(T)
	return v, ok
}

// releaseFunc adapts a plain function to the Resource interface.
type releaseFunc func()

func (f releaseFunc) Release() {
	f()
}
