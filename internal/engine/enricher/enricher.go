// Package enricher merges raw findings with facts derived from the dependency graph
// and the spec's static security metadata.
package enricher

import (
	"regexp"
	"strconv"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	defaultMaxDependents = 50
	defaultMaxPathDepth  = 16
)

// Enricher produces EnrichedFindings. It holds only immutable configuration and is
// safe for concurrent use.
type Enricher struct {
	privileged    []*regexp.Regexp
	maxDependents int
	maxPathDepth  int
}

// New compiles the privileged field patterns of cfg. Patterns match case-insensitively.
func New(cfg domain.EnricherConfig) (*Enricher, error) {
	e := &Enricher{
		maxDependents: cfg.MaxDependents,
		maxPathDepth:  cfg.MaxPathDepth,
	}
	if e.maxDependents <= 0 {
		e.maxDependents = defaultMaxDependents
	}
	if e.maxPathDepth <= 0 {
		e.maxPathDepth = defaultMaxPathDepth
	}

	for _, pattern := range cfg.PrivilegedPatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidPattern.Error()), "pattern", pattern)
		}
		e.privileged = append(e.privileged, re)
	}
	return e, nil
}

// Enrich returns one EnrichedFinding per input finding, in input order, each with
// a distinct id (see uniqueIDs). Anchors missing from the graph or the metadata
// yield empty defaults rather than errors.
func (e *Enricher) Enrich(findings []domain.RawFinding, graph *domain.Graph, meta Metadata) []domain.EnrichedFinding {
	ids := uniqueIDs(findings)
	out := make([]domain.EnrichedFinding, len(findings))
	for i, f := range findings {
		f.ID = ids[i]
		out[i] = e.enrichOne(f, graph, meta)
	}
	return out
}

// uniqueIDs assigns one distinct id per finding. The first occurrence of an
// explicit id keeps it. Repeats get a "~n" suffix, and findings without an id
// take their 1-based position; both skip ids that are already taken.
func uniqueIDs(findings []domain.RawFinding) []string {
	ids := make([]string, len(findings))
	used := make(map[string]struct{}, len(findings))
	for i, f := range findings {
		if f.ID == "" {
			continue
		}
		if _, taken := used[f.ID]; !taken {
			ids[i] = f.ID
			used[f.ID] = struct{}{}
		}
	}

	for i, f := range findings {
		if ids[i] != "" {
			continue
		}
		base, n := f.ID, 2
		candidate := base + "~2"
		if base == "" {
			base, n = strconv.Itoa(i+1), 1
			candidate = base
		}
		for {
			if _, taken := used[candidate]; !taken {
				break
			}
			n++
			candidate = base + "~" + strconv.Itoa(n)
		}
		ids[i] = candidate
		used[candidate] = struct{}{}
	}
	return ids
}

func (e *Enricher) enrichOne(f domain.RawFinding, graph *domain.Graph, meta Metadata) domain.EnrichedFinding {
	ef := domain.EnrichedFinding{
		RawFinding:         f,
		SchemaFields:       []string{},
		PrivilegedFields:   []string{},
		DependentEndpoints: []string{},
		DependencyPath:     []string{},
	}

	anchor := f.Anchor.NodeID()
	if anchor.IsZero() {
		return ef
	}

	ef.DependentEndpoints, ef.DependentsTruncated = e.dependentEndpoints(graph, anchor)
	for _, id := range graph.PathToDependent(anchor, domain.NodeID.IsEndpoint, e.maxPathDepth) {
		ef.DependencyPath = append(ef.DependencyPath, id.String())
	}

	switch {
	case f.Anchor.IsEndpoint():
		public, known := meta.publicEndpoint(anchor)
		ef.IsPublic = public
		ef.AuthRequired = known && !public
	case f.Anchor.IsSchema():
		if fields, ok := meta.Properties[f.Anchor.Schema]; ok {
			ef.SchemaFields = append(ef.SchemaFields, fields...)
		}
		ef.PrivilegedFields = e.privilegedFields(ef.SchemaFields)

		// A schema is exposed as widely as the most open endpoint that uses it.
		var anyKnown bool
		for _, endpoint := range ef.DependentEndpoints {
			public, known := meta.publicEndpoint(domain.NewNodeID(endpoint))
			anyKnown = anyKnown || known
			if public {
				ef.IsPublic = true
			}
		}
		ef.AuthRequired = anyKnown && !ef.IsPublic
	}

	return ef
}

// dependentEndpoints walks the reverse graph breadth first and collects endpoint
// nodes. At most maxDependents nodes are visited.
func (e *Enricher) dependentEndpoints(graph *domain.Graph, anchor domain.NodeID) ([]string, bool) {
	endpoints := []string{}
	visited := 0
	for id := range graph.WalkDependents(anchor) {
		if visited == e.maxDependents {
			return endpoints, true
		}
		visited++
		if id.IsEndpoint() {
			endpoints = append(endpoints, id.String())
		}
	}
	return endpoints, false
}

func (e *Enricher) privilegedFields(fields []string) []string {
	out := []string{}
	for _, field := range fields {
		for _, re := range e.privileged {
			if re.MatchString(field) {
				out = append(out, field)
				break
			}
		}
	}
	return out
}
