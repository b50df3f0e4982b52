package orchestrator

import (
	"encoding/json"

	"go.trai.ch/specscope/internal/core/domain"
)

// DecodeChain exposes chain validation for tests.
func DecodeChain(raw json.RawMessage, known ...string) (domain.Chain, error) {
	v, err := newChainValidator()
	if err != nil {
		return domain.Chain{}, err
	}
	set := make(map[string]struct{}, len(known))
	for _, id := range known {
		set[id] = struct{}{}
	}
	return v.Decode(raw, set)
}
