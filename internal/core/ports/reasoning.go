package ports

import (
	"context"
	"encoding/json"

	"go.trai.ch/specscope/internal/core/domain"
)

// TriageItem is the compact form of a finding sent to the triage stage.
type TriageItem struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Severity domain.Severity `json:"severity"`
	Endpoint string          `json:"endpoint,omitempty"`
}

// TriageRequest asks the engine which findings may combine into chains.
type TriageRequest struct {
	RequestID string       `json:"requestId"`
	Findings  []TriageItem `json:"findings"`
}

// TriageResponse lists the ids the engine considers combinable.
type TriageResponse struct {
	IDs []string `json:"ids"`
}

// DeepRequest carries the full enriched findings of the triaged subset.
type DeepRequest struct {
	RequestID string                   `json:"requestId"`
	Findings  []domain.EnrichedFinding `json:"findings"`
	Context   map[string][]string      `json:"context,omitempty"`
}

// DeepResponse holds the chain objects exactly as returned, before validation.
type DeepResponse struct {
	Chains []json.RawMessage `json:"chains"`
}

// ReasoningEngine is the external natural-language reasoning collaborator.
// Every call must honor ctx cancellation and deadlines.
//
//go:generate mockgen -source=reasoning.go -destination=mocks/mock_reasoning.go -package=mocks
type ReasoningEngine interface {
	Triage(ctx context.Context, req TriageRequest) (*TriageResponse, error)
	Deep(ctx context.Context, req DeepRequest) (*DeepResponse, error)
}

// KnowledgeRetriever supplies optional reference snippets keyed by topic.
// Missing topics are simply absent from the result.
type KnowledgeRetriever interface {
	Retrieve(ctx context.Context, topics []string) (map[string][]string, error)
}
