package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestParseSeverity(t *testing.T) {
	tests := map[string]domain.Severity{
		"CRITICAL": domain.SeverityCritical,
		" high ":   domain.SeverityHigh,
		"error":    domain.SeverityHigh,
		"Medium":   domain.SeverityMedium,
		"warning":  domain.SeverityMedium,
		"low":      domain.SeverityLow,
		"info":     domain.SeverityInfo,
		"bogus":    domain.SeverityInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, domain.ParseSeverity(in), in)
	}
}

func TestAnchor(t *testing.T) {
	endpoint := domain.Anchor{Path: "/users", Method: "post"}
	assert.True(t, endpoint.IsEndpoint())
	assert.False(t, endpoint.IsSchema())
	assert.Equal(t, "POST /users", endpoint.String())

	schema := domain.Anchor{Schema: "User"}
	assert.True(t, schema.IsSchema())
	assert.Equal(t, domain.SchemaNodeID("User"), schema.NodeID())

	assert.True(t, domain.Anchor{}.NodeID().IsZero())
	assert.True(t, domain.Anchor{Path: "/users"}.NodeID().IsZero(), "path without method is not an endpoint")
}

func TestStateTrail(t *testing.T) {
	trail := domain.NewStateTrail()
	assert.Equal(t, domain.StateCold, trail.Current())

	require.NoError(t, trail.Advance(domain.StateTriagePending))
	require.NoError(t, trail.Advance(domain.StateTriageDone))
	require.NoError(t, trail.Advance(domain.StateDeepPending))
	require.NoError(t, trail.Advance(domain.StateDegraded))
	require.NoError(t, trail.Advance(domain.StateDone))
	assert.True(t, trail.Current().IsTerminal())

	assert.Equal(t, []domain.AnalysisState{
		domain.StateCold,
		domain.StateTriagePending,
		domain.StateTriageDone,
		domain.StateDeepPending,
		domain.StateDegraded,
		domain.StateDone,
	}, trail.States())
}

func TestStateTrail_RejectsInvalidTransition(t *testing.T) {
	trail := domain.NewStateTrail()

	err := trail.Advance(domain.StateDeepPending)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidTransition.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, "COLD", meta["from"])
	assert.Equal(t, "DEEP_PENDING", meta["to"])
	assert.Equal(t, domain.StateCold, trail.Current())
}

func TestAnalysisResult_Clone(t *testing.T) {
	orig := domain.AnalysisResult{
		Chains: []domain.Chain{{
			Severity:    domain.SeverityHigh,
			Steps:       []domain.ChainStep{{Order: 1, Description: "enumerate"}},
			FindingRefs: []string{"1", "2"},
		}},
		Stats: domain.Statistics{FindingsInChains: []string{"1", "2"}, Isolated: []string{"3"}},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone.Chains[0].FindingRefs[0] = "changed"
	clone.Stats.Isolated[0] = "changed"
	assert.Equal(t, "1", orig.Chains[0].FindingRefs[0])
	assert.Equal(t, "3", orig.Stats.Isolated[0])

	assert.Nil(t, domain.AnalysisResult{}.Clone().Chains)
}

func TestSchema_PropertyNames(t *testing.T) {
	s := &domain.Schema{
		Properties: []domain.Property{{Name: "id"}, {Name: "role"}},
		AllOf: []*domain.Schema{
			{Ref: "#/components/schemas/Base"},
			{Properties: []domain.Property{{Name: "tenantId"}}},
		},
	}
	assert.Equal(t, []string{"id", "role", "tenantId"}, s.PropertyNames())

	var nilSchema *domain.Schema
	assert.Nil(t, nilSchema.PropertyNames())
}
