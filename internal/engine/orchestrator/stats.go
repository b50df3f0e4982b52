package orchestrator

import (
	"slices"

	"go.trai.ch/specscope/internal/core/domain"
)

// Score starts at maxScore and loses a fixed penalty per chain and per isolated
// finding according to severity. It never drops below zero.
const maxScore = 100

var chainPenalty = map[domain.Severity]int{
	domain.SeverityCritical: 25,
	domain.SeverityHigh:     15,
	domain.SeverityMedium:   8,
	domain.SeverityLow:      3,
}

var isolatedPenalty = map[domain.Severity]int{
	domain.SeverityCritical: 10,
	domain.SeverityHigh:     5,
}

// ComputeStatistics partitions the finding ids into those referenced by at least
// one chain and the isolated rest, and scores the result. Both lists follow the
// order of findings. Duplicate ids count once.
func ComputeStatistics(findings []domain.EnrichedFinding, chains []domain.Chain) domain.Statistics {
	referenced := make(map[string]struct{})
	for _, c := range chains {
		for _, ref := range c.FindingRefs {
			referenced[ref] = struct{}{}
		}
	}

	stats := domain.Statistics{
		ChainCount:       len(chains),
		FindingsInChains: []string{},
		Isolated:         []string{},
	}

	score := maxScore
	for _, c := range chains {
		score -= chainPenalty[c.Severity]
	}

	seen := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		if _, dup := seen[f.ID]; dup {
			continue
		}
		seen[f.ID] = struct{}{}

		if _, ok := referenced[f.ID]; ok {
			stats.FindingsInChains = append(stats.FindingsInChains, f.ID)
			continue
		}
		stats.Isolated = append(stats.Isolated, f.ID)
		score -= isolatedPenalty[f.Severity]
	}

	stats.TotalFindings = len(seen)
	stats.ChainedCount = len(stats.FindingsInChains)
	stats.IsolatedCount = len(stats.Isolated)
	stats.Score = max(score, 0)
	return stats
}

// Reconcile adapts a result computed for another finding set to findings: chains
// that reference unknown ids are dropped and the statistics are recomputed.
func Reconcile(result domain.AnalysisResult, findings []domain.EnrichedFinding) domain.AnalysisResult {
	known := idSet(findings)
	out := result.Clone()
	out.Chains = slices.DeleteFunc(out.Chains, func(c domain.Chain) bool {
		return !refsKnown(c.FindingRefs, known)
	})
	if out.Chains == nil {
		out.Chains = []domain.Chain{}
	}
	out.Stats = ComputeStatistics(findings, out.Chains)
	return out
}

func idSet(findings []domain.EnrichedFinding) map[string]struct{} {
	ids := make(map[string]struct{}, len(findings))
	for _, f := range findings {
		ids[f.ID] = struct{}{}
	}
	return ids
}

func refsKnown(refs []string, known map[string]struct{}) bool {
	for _, ref := range refs {
		if _, ok := known[ref]; !ok {
			return false
		}
	}
	return true
}
