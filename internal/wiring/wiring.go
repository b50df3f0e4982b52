// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/specscope/internal/adapters/config"
	_ "go.trai.ch/specscope/internal/adapters/findings"
	_ "go.trai.ch/specscope/internal/adapters/logger"
	_ "go.trai.ch/specscope/internal/adapters/openapi"
	// Register app nodes.
	_ "go.trai.ch/specscope/internal/app"
)
