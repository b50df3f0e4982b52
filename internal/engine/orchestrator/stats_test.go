package orchestrator_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/enricher"
	"go.trai.ch/specscope/internal/engine/orchestrator"
)

func finding(id string, sev domain.Severity) domain.EnrichedFinding {
	return domain.EnrichedFinding{RawFinding: domain.RawFinding{ID: id, Category: "cat-" + id, Severity: sev}}
}

func TestComputeStatistics_Partition(t *testing.T) {
	findings := []domain.EnrichedFinding{
		finding("1", domain.SeverityHigh),
		finding("2", domain.SeverityLow),
		finding("3", domain.SeverityCritical),
	}
	chains := []domain.Chain{{Severity: domain.SeverityHigh, FindingRefs: []string{"3", "1"}}}

	stats := orchestrator.ComputeStatistics(findings, chains)

	assert.Equal(t, 3, stats.TotalFindings)
	assert.Equal(t, 1, stats.ChainCount)
	assert.Equal(t, []string{"1", "3"}, stats.FindingsInChains)
	assert.Equal(t, []string{"2"}, stats.Isolated)
	assert.Equal(t, 2, stats.ChainedCount)
	assert.Equal(t, 1, stats.IsolatedCount)
	assert.Equal(t, 100-15, stats.Score)
}

func TestComputeStatistics_Score(t *testing.T) {
	tests := []struct {
		name     string
		findings []domain.EnrichedFinding
		chains   []domain.Chain
		want     int
	}{
		{
			name:     "no chains and no severe isolated findings",
			findings: []domain.EnrichedFinding{finding("1", domain.SeverityMedium), finding("2", domain.SeverityInfo)},
			want:     100,
		},
		{
			name:     "isolated penalties",
			findings: []domain.EnrichedFinding{finding("1", domain.SeverityCritical), finding("2", domain.SeverityHigh)},
			want:     85,
		},
		{
			name:     "chain penalties by severity",
			findings: []domain.EnrichedFinding{finding("1", domain.SeverityCritical)},
			chains: []domain.Chain{
				{Severity: domain.SeverityCritical, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityMedium, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityLow, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityInfo, FindingRefs: []string{"1"}},
			},
			want: 100 - 25 - 8 - 3,
		},
		{
			name:     "floored at zero",
			findings: []domain.EnrichedFinding{finding("1", domain.SeverityCritical)},
			chains: []domain.Chain{
				{Severity: domain.SeverityCritical, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityCritical, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityCritical, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityCritical, FindingRefs: []string{"1"}},
				{Severity: domain.SeverityCritical, FindingRefs: []string{"1"}},
			},
			want: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, orchestrator.ComputeStatistics(tt.findings, tt.chains).Score)
		})
	}
}

func TestComputeStatistics_PartitionProperty(t *testing.T) {
	severities := []domain.Severity{
		domain.SeverityCritical, domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow, domain.SeverityInfo,
	}
	rng := rand.New(rand.NewPCG(1, 2))

	for round := range 50 {
		n := rng.IntN(20)
		findings := make([]domain.EnrichedFinding, n)
		for i := range findings {
			findings[i] = finding(fmt.Sprint(i), severities[rng.IntN(len(severities))])
		}
		var chains []domain.Chain
		for range rng.IntN(8) {
			var refs []string
			for range 1 + rng.IntN(3) {
				if n > 0 {
					refs = append(refs, fmt.Sprint(rng.IntN(n)))
				}
			}
			chains = append(chains, domain.Chain{Severity: severities[rng.IntN(len(severities))], FindingRefs: refs})
		}

		stats := orchestrator.ComputeStatistics(findings, chains)

		union := append(append([]string{}, stats.FindingsInChains...), stats.Isolated...)
		assert.Len(t, union, n, "round %d", round)
		for _, id := range stats.FindingsInChains {
			assert.NotContains(t, stats.Isolated, id, "round %d", round)
		}
		for _, f := range findings {
			assert.Contains(t, union, f.ID, "round %d", round)
		}
		assert.GreaterOrEqual(t, stats.Score, 0)
		assert.LessOrEqual(t, stats.Score, 100)
	}
}

func TestReconcile_DropsChainsWithUnknownRefs(t *testing.T) {
	cached := domain.AnalysisResult{
		Chains: []domain.Chain{
			{Title: "keep", Severity: domain.SeverityLow, FindingRefs: []string{"1"}},
			{Title: "drop", Severity: domain.SeverityHigh, FindingRefs: []string{"1", "9"}},
		},
	}
	findings := []domain.EnrichedFinding{finding("1", domain.SeverityHigh), finding("2", domain.SeverityHigh)}

	got := orchestrator.Reconcile(cached, findings)

	assert.Len(t, got.Chains, 1)
	assert.Equal(t, "keep", got.Chains[0].Title)
	assert.Equal(t, []string{"1"}, got.Stats.FindingsInChains)
	assert.Equal(t, []string{"2"}, got.Stats.Isolated)
	assert.Equal(t, 100-3-5, got.Stats.Score)
	assert.Len(t, cached.Chains, 2, "input result is not modified")
}

func TestComputeStatistics_EnrichedIDsCountEveryFinding(t *testing.T) {
	e, err := enricher.New(domain.DefaultConfig().Enricher)
	require.NoError(t, err)

	findings := e.Enrich([]domain.RawFinding{
		{Severity: domain.SeverityCritical},
		{ID: "1", Severity: domain.SeverityCritical},
	}, domain.NewGraph(nil, nil, nil), enricher.Metadata{})

	stats := orchestrator.ComputeStatistics(findings, nil)

	assert.Equal(t, 2, stats.TotalFindings)
	assert.Equal(t, 2, stats.IsolatedCount)
	assert.Equal(t, 100-2*10, stats.Score)
}
