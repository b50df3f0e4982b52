package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/specscope/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/specscope/internal/adapters/findings" //nolint:depguard // Wired in app layer
	"go.trai.ch/specscope/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/specscope/internal/adapters/openapi"  //nolint:depguard // Wired in app layer
	"go.trai.ch/specscope/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds the resolved application graph.
type Components struct {
	App          *App
	Logger       ports.Logger
	ConfigLoader ports.ConfigLoader
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			openapi.NodeID,
			findings.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	specLoader, err := graft.Dep[ports.SpecLoader](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.FindingSource](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, specLoader, source, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          app,
		Logger:       log,
		ConfigLoader: loader,
	}, nil
}
