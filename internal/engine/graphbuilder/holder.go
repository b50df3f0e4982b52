package graphbuilder

import (
	"sync"
	"sync/atomic"

	"go.trai.ch/specscope/internal/core/domain"
)

type snapshot struct {
	digest string
	graph  *domain.Graph
}

// Holder owns the current graph of a spec that changes over time. Readers always see
// a complete graph: a rebuild happens off to the side and is published with a single
// atomic swap, so in-flight readers keep the graph they already hold.
type Holder struct {
	builder *Builder

	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

// NewHolder creates an empty holder.
func NewHolder(builder *Builder) *Holder {
	return &Holder{builder: builder}
}

// Current returns the published graph and the digest of the spec it was built from.
// Both are zero before the first successful Rebuild.
func (h *Holder) Current() (*domain.Graph, string) {
	snap := h.current.Load()
	if snap == nil {
		return nil, ""
	}
	return snap.graph, snap.digest
}

// Rebuild publishes a graph for spec unless the published one was built from the
// same content. It reports whether a new graph was published.
func (h *Holder) Rebuild(spec *domain.SpecModel) (*domain.Graph, bool, error) {
	if spec == nil {
		return nil, false, domain.ErrFatalInput
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if snap := h.current.Load(); snap != nil && spec.Digest != "" && snap.digest == spec.Digest {
		return snap.graph, false, nil
	}

	g, err := h.builder.Build(spec)
	if err != nil {
		return nil, false, err
	}

	h.current.Store(&snapshot{digest: spec.Digest, graph: g})
	return g, true, nil
}
