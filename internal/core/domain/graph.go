// Package domain contains the core domain models for spec dependency analysis.
package domain

import (
	"cmp"
	"iter"
	"slices"
)

type nodeSet map[NodeID]struct{}

// Edge is a directed dependency: Source references Target.
type Edge struct {
	Source NodeID `json:"source"`
	Target NodeID `json:"target"`
}

// Anomaly is a reference that could not be turned into an edge. It is a soft failure:
// the graph is still usable without it.
type Anomaly struct {
	Source NodeID `json:"source"`
	Ref    string `json:"ref"`
	Err    error  `json:"-"`
}

// Reason returns the anomaly's error message.
func (a Anomaly) Reason() string {
	if a.Err == nil {
		return ""
	}
	return a.Err.Error()
}

// Graph is an immutable dependency graph over spec components. Cycles are allowed.
// For all u, v: v is in forward[u] if and only if u is in reverse[v].
type Graph struct {
	nodes     nodeSet
	forward   map[NodeID]nodeSet
	reverse   map[NodeID]nodeSet
	anomalies []Anomaly
	edges     int
}

// NewGraph creates a graph from the declared nodes and their outgoing edges.
// The reverse adjacency is derived by inverting every forward edge. Edge targets
// that are not declared nodes are dropped.
func NewGraph(nodes []NodeID, forward map[NodeID][]NodeID, anomalies []Anomaly) *Graph {
	g := &Graph{
		nodes:     make(nodeSet, len(nodes)),
		forward:   make(map[NodeID]nodeSet, len(nodes)),
		reverse:   make(map[NodeID]nodeSet, len(nodes)),
		anomalies: slices.Clone(anomalies),
	}
	for _, n := range nodes {
		g.nodes[n] = struct{}{}
	}

	for src, targets := range forward {
		if _, ok := g.nodes[src]; !ok {
			continue
		}
		for _, dst := range targets {
			if _, ok := g.nodes[dst]; !ok {
				continue
			}
			g.addEdge(src, dst)
		}
	}

	return g
}

func (g *Graph) addEdge(src, dst NodeID) {
	out, ok := g.forward[src]
	if !ok {
		out = make(nodeSet)
		g.forward[src] = out
	}
	if _, dup := out[dst]; dup {
		return
	}
	out[dst] = struct{}{}

	in, ok := g.reverse[dst]
	if !ok {
		in = make(nodeSet)
		g.reverse[dst] = in
	}
	in[src] = struct{}{}
	g.edges++
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id NodeID) bool {
	if g == nil {
		return false
	}
	_, ok := g.nodes[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	if g == nil {
		return 0
	}
	return g.edges
}

// Nodes returns all node identifiers in lexical order.
func (g *Graph) Nodes() []NodeID {
	if g == nil {
		return nil
	}
	return sortedIDs(g.nodes)
}

// Dependencies returns the nodes id references directly, in lexical order.
func (g *Graph) Dependencies(id NodeID) []NodeID {
	if g == nil {
		return nil
	}
	return sortedIDs(g.forward[id])
}

// Dependents returns the nodes that reference id directly, in lexical order.
func (g *Graph) Dependents(id NodeID) []NodeID {
	if g == nil {
		return nil
	}
	return sortedIDs(g.reverse[id])
}

// Anomalies returns the soft failures recorded while the graph was built.
func (g *Graph) Anomalies() []Anomaly {
	if g == nil {
		return nil
	}
	return slices.Clone(g.anomalies)
}

// Forward returns the forward adjacency as sorted string lists keyed by node.
// Every node is present, with an empty list when it references nothing.
func (g *Graph) Forward() map[string][]string {
	return g.adjacency(func(id NodeID) nodeSet { return g.forward[id] })
}

// Reverse returns the reverse adjacency as sorted string lists keyed by node.
// Every node is present, with an empty list when nothing references it.
func (g *Graph) Reverse() map[string][]string {
	return g.adjacency(func(id NodeID) nodeSet { return g.reverse[id] })
}

func (g *Graph) adjacency(get func(NodeID) nodeSet) map[string][]string {
	if g == nil {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(g.nodes))
	for n := range g.nodes {
		ids := sortedIDs(get(n))
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = id.String()
		}
		out[n.String()] = names
	}
	return out
}

// Edges returns every edge sorted by source, then target.
func (g *Graph) Edges() []Edge {
	if g == nil {
		return nil
	}
	edges := make([]Edge, 0, g.edges)
	for src, targets := range g.forward {
		for dst := range targets {
			edges = append(edges, Edge{Source: src, Target: dst})
		}
	}
	slices.SortFunc(edges, func(a, b Edge) int {
		return cmp.Or(
			cmp.Compare(a.Source.String(), b.Source.String()),
			cmp.Compare(a.Target.String(), b.Target.String()),
		)
	})
	return edges
}

// WalkDependents yields the transitive dependents of start in breadth-first order,
// excluding start itself. Each node is yielded at most once, so cycles terminate.
func (g *Graph) WalkDependents(start NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !g.Has(start) {
			return
		}
		seen := nodeSet{start: {}}
		queue := []NodeID{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range g.Dependents(current) {
				if _, ok := seen[next]; ok {
					continue
				}
				seen[next] = struct{}{}
				if !yield(next) {
					return
				}
				queue = append(queue, next)
			}
		}
	}
}

// PathToDependent returns the shortest reverse-edge path from start to the nearest
// node accepted by match, including both ends. It returns nil when no such node is
// reachable within maxDepth edges. A maxDepth <= 0 means unbounded.
func (g *Graph) PathToDependent(start NodeID, match func(NodeID) bool, maxDepth int) []NodeID {
	if !g.Has(start) {
		return nil
	}
	if match(start) {
		return []NodeID{start}
	}

	parent := map[NodeID]NodeID{start: {}}
	frontier := []NodeID{start}
	for depth := 1; len(frontier) > 0 && (maxDepth <= 0 || depth <= maxDepth); depth++ {
		var next []NodeID
		for _, current := range frontier {
			for _, dep := range g.Dependents(current) {
				if _, ok := parent[dep]; ok {
					continue
				}
				parent[dep] = current
				if match(dep) {
					return tracePath(parent, start, dep)
				}
				next = append(next, dep)
			}
		}
		frontier = next
	}
	return nil
}

func tracePath(parent map[NodeID]NodeID, start, end NodeID) []NodeID {
	path := []NodeID{end}
	for current := end; current != start; {
		current = parent[current]
		path = append(path, current)
	}
	slices.Reverse(path)
	return path
}

func sortedIDs(set nodeSet) []NodeID {
	ids := make([]NodeID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b NodeID) int {
		return cmp.Compare(a.String(), b.String())
	})
	return ids
}
