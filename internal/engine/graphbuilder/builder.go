// Package graphbuilder turns a parsed spec model into a dependency graph.
package graphbuilder

import (
	"cmp"
	"slices"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/zerr"
)

// Builder builds dependency graphs. It is stateless and safe for concurrent use.
type Builder struct {
	logger ports.Logger
}

// New creates a Builder that reports soft anomalies to logger.
func New(logger ports.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build traverses every component and operation of spec and records an edge for
// each reference. Dangling and malformed references are recorded as anomalies and
// skipped. Only a nil spec is an error.
func (b *Builder) Build(spec *domain.SpecModel) (*domain.Graph, error) {
	if spec == nil {
		return nil, domain.ErrFatalInput
	}

	t := newTraversal(spec)
	for _, id := range t.order {
		t.expand(id)
	}

	for _, a := range t.anomalies {
		b.logger.Warn("skipping unresolved reference", "source", a.Source.String(), "ref", a.Ref, "reason", a.Reason())
	}

	return domain.NewGraph(t.order, t.forward, t.anomalies), nil
}

type anomalyKey struct {
	source domain.NodeID
	ref    string
}

// traversal holds the state of one Build call. Each node's references are
// resolved exactly once, which keeps the build linear in nodes plus edges.
type traversal struct {
	order      []domain.NodeID
	refs       map[domain.NodeID][]string
	forward    map[domain.NodeID][]domain.NodeID
	inProgress map[domain.NodeID]struct{}
	done       map[domain.NodeID]struct{}
	anomalies  []domain.Anomaly
	reported   map[anomalyKey]struct{}
}

func newTraversal(spec *domain.SpecModel) *traversal {
	t := &traversal{
		refs:       make(map[domain.NodeID][]string),
		forward:    make(map[domain.NodeID][]domain.NodeID),
		inProgress: make(map[domain.NodeID]struct{}),
		done:       make(map[domain.NodeID]struct{}),
		reported:   make(map[anomalyKey]struct{}),
	}

	schemas := slices.Clone(spec.Schemas)
	slices.SortFunc(schemas, func(a, b domain.NamedSchema) int { return cmp.Compare(a.Name, b.Name) })
	for _, s := range schemas {
		t.declare(domain.SchemaNodeID(s.Name), schemaRefs(s.Schema))
	}

	for _, c := range spec.Parameters {
		t.declare(domain.ParameterNodeID(c.Name), componentRefs(c))
	}
	for _, c := range spec.RequestBodies {
		t.declare(domain.RequestBodyNodeID(c.Name), componentRefs(c))
	}
	for _, c := range spec.Responses {
		t.declare(domain.ResponseNodeID(c.Name), componentRefs(c))
	}

	for i := range spec.Operations {
		op := &spec.Operations[i]
		t.declare(op.NodeID(), operationRefs(op))
	}

	return t
}

func (t *traversal) declare(id domain.NodeID, refs []string) {
	if _, exists := t.refs[id]; exists {
		// Duplicate declarations merge their references.
		t.refs[id] = append(t.refs[id], refs...)
		return
	}
	t.order = append(t.order, id)
	t.refs[id] = refs
}

// expand resolves id's references and recurses into their targets depth first.
// The in-progress set stops cycles; the done set stops re-expansion.
func (t *traversal) expand(id domain.NodeID) {
	if _, ok := t.done[id]; ok {
		return
	}
	if _, ok := t.inProgress[id]; ok {
		return
	}
	t.inProgress[id] = struct{}{}

	for _, ref := range t.refs[id] {
		target, err := domain.RefToNodeID(ref)
		if err != nil {
			t.anomaly(id, ref, err)
			continue
		}
		if _, declared := t.refs[target]; !declared {
			t.anomaly(id, ref, zerr.With(domain.ErrDanglingReference, "ref", ref))
			continue
		}
		t.forward[id] = append(t.forward[id], target)
		t.expand(target)
	}

	delete(t.inProgress, id)
	t.done[id] = struct{}{}
}

func (t *traversal) anomaly(source domain.NodeID, ref string, err error) {
	key := anomalyKey{source: source, ref: ref}
	if _, seen := t.reported[key]; seen {
		return
	}
	t.reported[key] = struct{}{}
	t.anomalies = append(t.anomalies, domain.Anomaly{Source: source, Ref: ref, Err: err})
}

func componentRefs(c domain.Component) []string {
	if c.Ref != "" {
		return []string{c.Ref}
	}
	return schemaListRefs(c.Schemas)
}

func operationRefs(op *domain.Operation) []string {
	var refs []string
	for _, p := range op.Parameters {
		if p.Ref != "" {
			refs = append(refs, p.Ref)
			continue
		}
		refs = append(refs, schemaListRefs(p.Schemas)...)
	}
	if body := op.RequestBody; body != nil {
		if body.Ref != "" {
			refs = append(refs, body.Ref)
		} else {
			refs = append(refs, schemaListRefs(body.Schemas)...)
		}
	}
	for _, r := range op.Responses {
		if r.Ref != "" {
			refs = append(refs, r.Ref)
			continue
		}
		refs = append(refs, schemaListRefs(r.Schemas)...)
	}
	return refs
}

func schemaListRefs(schemas []*domain.Schema) []string {
	var refs []string
	for _, s := range schemas {
		refs = append(refs, schemaRefs(s)...)
	}
	return refs
}

// schemaRefs collects the references of an inline schema tree without following them.
func schemaRefs(root *domain.Schema) []string {
	var refs []string
	seen := make(map[*domain.Schema]struct{})

	var walk func(s *domain.Schema)
	walk = func(s *domain.Schema) {
		if s == nil {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}

		if s.Ref != "" {
			refs = append(refs, s.Ref)
			return
		}
		for _, p := range s.Properties {
			walk(p.Schema)
		}
		walk(s.Items)
		walk(s.AdditionalProperties)
		for _, group := range [][]*domain.Schema{s.AllOf, s.OneOf, s.AnyOf} {
			for _, member := range group {
				walk(member)
			}
		}
		walk(s.Not)
	}

	walk(root)
	return refs
}
