package enricher

import (
	"go.trai.ch/specscope/internal/core/domain"
)

// Metadata is the static security and shape information the enricher reads from a
// spec. It is derived once per spec and shared by every enrichment call.
type Metadata struct {
	// Operations maps each declared operation to its own security requirements.
	// A nil value means the operation inherits GlobalSecurity.
	Operations     map[domain.NodeID][]domain.SecurityRequirement
	GlobalSecurity []domain.SecurityRequirement
	// Properties maps schema names to their immediate property names.
	Properties map[string][]string
}

// MetadataFromSpec extracts Metadata from a parsed spec. A nil spec yields empty metadata.
func MetadataFromSpec(spec *domain.SpecModel) Metadata {
	meta := Metadata{
		Operations: make(map[domain.NodeID][]domain.SecurityRequirement),
		Properties: make(map[string][]string),
	}
	if spec == nil {
		return meta
	}

	meta.GlobalSecurity = spec.GlobalSecurity
	for i := range spec.Operations {
		op := &spec.Operations[i]
		meta.Operations[op.NodeID()] = op.Security
	}
	for _, s := range spec.Schemas {
		meta.Properties[s.Name] = s.Schema.PropertyNames()
	}
	return meta
}

// publicEndpoint reports whether id is reachable anonymously. known is false when the
// operation is absent from the metadata.
func (m Metadata) publicEndpoint(id domain.NodeID) (public, known bool) {
	own, ok := m.Operations[id]
	if !ok {
		return false, false
	}
	reqs := m.GlobalSecurity
	if own != nil {
		reqs = own
	}
	if len(reqs) == 0 {
		return true, true
	}
	for _, r := range reqs {
		if r.IsAnonymous() {
			return true, true
		}
	}
	return false, true
}
