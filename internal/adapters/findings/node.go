package findings

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/specscope/internal/core/ports"
)

// NodeID is the graft node that provides the finding source.
const NodeID graft.ID = "adapter.finding_source"

func init() {
	graft.Register(graft.Node[ports.FindingSource]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FindingSource, error) {
			return NewFileSource(), nil
		},
	})
}
