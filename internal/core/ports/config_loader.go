package ports

import "go.trai.ch/specscope/internal/core/domain"

// ConfigLoader defines the interface for loading the runtime configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load resolves the configuration. An explicit path wins; otherwise the loader
	// walks up from cwd looking for a config file and falls back to defaults.
	Load(cwd, explicitPath string) (domain.Config, error)
}
