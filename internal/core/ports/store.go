package ports

import (
	"context"
	"time"

	"go.trai.ch/specscope/internal/core/domain"
)

// ResultStore is the durable tier for analysis results, shared across processes.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ResultStore interface {
	// Get retrieves the result stored under key.
	// Returns nil, nil if not found.
	Get(ctx context.Context, key string) (*domain.AnalysisResult, error)

	// Put stores the result under key for ttl.
	Put(ctx context.Context, key string, result domain.AnalysisResult, ttl time.Duration) error
}
