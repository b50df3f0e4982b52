package report

import (
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/orchestrator"
)

type specView struct {
	Title   string `json:"title"`
	Version string `json:"version"`
	Digest  string `json:"digest"`
}

type analysisView struct {
	Spec specView `json:"spec"`
	*orchestrator.Outcome
	Findings []domain.EnrichedFinding `json:"findings"`
}

type anomalyView struct {
	Source string `json:"source"`
	Ref    string `json:"ref"`
	Reason string `json:"reason"`
}

type graphView struct {
	Nodes     []string            `json:"nodes"`
	Forward   map[string][]string `json:"forward"`
	Reverse   map[string][]string `json:"reverse"`
	Edges     []domain.Edge       `json:"edges"`
	Anomalies []anomalyView       `json:"anomalies"`
}

func newGraphView(g *domain.Graph) graphView {
	v := graphView{
		Nodes:     []string{},
		Forward:   g.Forward(),
		Reverse:   g.Reverse(),
		Edges:     g.Edges(),
		Anomalies: []anomalyView{},
	}
	for _, id := range g.Nodes() {
		v.Nodes = append(v.Nodes, id.String())
	}
	for _, a := range g.Anomalies() {
		v.Anomalies = append(v.Anomalies, anomalyView{Source: a.Source.String(), Ref: a.Ref, Reason: a.Reason()})
	}
	if v.Edges == nil {
		v.Edges = []domain.Edge{}
	}
	return v
}
