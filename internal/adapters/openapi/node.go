package openapi

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/specscope/internal/adapters/logger"
	"go.trai.ch/specscope/internal/core/ports"
)

// NodeID is the graft node that provides the spec loader.
const NodeID graft.ID = "adapter.spec_loader"

func init() {
	graft.Register(graft.Node[ports.SpecLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.SpecLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log), nil
		},
	})
}
