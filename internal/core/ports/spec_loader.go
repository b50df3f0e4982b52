package ports

import (
	"context"

	"go.trai.ch/specscope/internal/core/domain"
)

// SpecLoader parses an API description into a spec model.
//
//go:generate mockgen -source=spec_loader.go -destination=mocks/mock_spec_loader.go -package=mocks
type SpecLoader interface {
	// Load reads and parses the document at path.
	Load(ctx context.Context, path string) (*domain.SpecModel, error)

	// Parse parses an in-memory document.
	Parse(ctx context.Context, data []byte) (*domain.SpecModel, error)
}

// FindingSource loads raw findings produced by an external linter.
type FindingSource interface {
	// Load reads the findings file at path. Order is preserved.
	Load(ctx context.Context, path string) ([]domain.RawFinding, error)
}
