// Package analysiscache caches analysis results at three levels of input
// specificity so structurally equivalent requests can skip the reasoning engine.
package analysiscache

import (
	"errors"
	"time"

	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/engine/cache"
)

// Level identifies which cache level served a lookup.
type Level uint8

const (
	// LevelNone means every level missed.
	LevelNone Level = iota
	// LevelSpec matched the exact spec content.
	LevelSpec
	// LevelFindings matched the finding signature.
	LevelFindings
	// LevelGraph matched the dependency graph structure.
	LevelGraph
)

// String returns a short level name.
func (l Level) String() string {
	switch l {
	case LevelSpec:
		return "spec"
	case LevelFindings:
		return "findings"
	case LevelGraph:
		return "graph"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Keys holds the per-level keys of one request. An empty key skips its level.
type Keys struct {
	Spec     string
	Findings string
	Graph    string
}

type signature struct {
	ID       string          `json:"id"`
	Category string          `json:"category"`
	Severity domain.Severity `json:"severity"`
	Anchor   domain.Anchor   `json:"anchor"`
}

// KeysFor derives the level keys from a spec digest, the enriched findings and the
// graph. A part that cannot be serialized leaves its key empty and is reported in
// the returned error; the remaining keys are still usable.
func KeysFor(specDigest string, findings []domain.EnrichedFinding, graph *domain.Graph) (Keys, error) {
	keys := Keys{Spec: specDigest}
	var errs []error

	sigs := make([]signature, len(findings))
	for i, f := range findings {
		sigs[i] = signature{ID: f.ID, Category: f.Category, Severity: f.Severity, Anchor: f.Anchor}
	}
	findingsKey, err := cache.Key("findings", sigs)
	if err != nil {
		errs = append(errs, err)
	} else {
		keys.Findings = findingsKey
	}

	edges := graph.Edges()
	pairs := make([][2]string, len(edges))
	for i, e := range edges {
		pairs[i] = [2]string{e.Source.String(), e.Target.String()}
	}
	graphKey, err := cache.Key("graph", pairs)
	if err != nil {
		errs = append(errs, err)
	} else {
		keys.Graph = graphKey
	}

	return keys, errors.Join(errs...)
}

type level struct {
	id    Level
	store *cache.Store[string, domain.AnalysisResult]
	ttl   time.Duration
	key   func(Keys) string
}

// Cache wraps one Store per level. It is safe for concurrent use.
type Cache struct {
	levels []level
}

// New creates the three level stores from cfg.
func New(cfg domain.CacheConfig, opts ...cache.Option) (*Cache, error) {
	specs := []struct {
		id   Level
		name string
		cfg  domain.CacheLevelConfig
		key  func(Keys) string
	}{
		{LevelSpec, "analysis_spec", cfg.Spec, func(k Keys) string { return k.Spec }},
		{LevelFindings, "analysis_findings", cfg.Findings, func(k Keys) string { return k.Findings }},
		{LevelGraph, "analysis_graph", cfg.Graph, func(k Keys) string { return k.Graph }},
	}

	c := &Cache{}
	for _, s := range specs {
		storeOpts := append([]cache.Option{cache.WithDefaultTTL(s.cfg.TTL)}, opts...)
		store, err := cache.New[string, domain.AnalysisResult](s.name, s.cfg.Capacity, storeOpts...)
		if err != nil {
			return nil, err
		}
		c.levels = append(c.levels, level{id: s.id, store: store, ttl: s.cfg.TTL, key: s.key})
	}
	return c, nil
}

// Lookup checks the levels from most to least specific and returns a copy of the
// first hit. ok is false when every level missed.
func (c *Cache) Lookup(keys Keys) (domain.AnalysisResult, Level, bool) {
	for _, l := range c.levels {
		key := l.key(keys)
		if key == "" {
			continue
		}
		if result, ok := l.store.Get(key); ok {
			return result.Clone(), l.id, true
		}
	}
	return domain.AnalysisResult{}, LevelNone, false
}

// StoreAll records result under every non-empty key.
func (c *Cache) StoreAll(keys Keys, result domain.AnalysisResult) {
	for _, l := range c.levels {
		key := l.key(keys)
		if key == "" {
			continue
		}
		l.store.Put(key, result.Clone(), l.ttl)
	}
}

// InvalidateAll drops every cached result.
func (c *Cache) InvalidateAll() {
	for _, l := range c.levels {
		l.store.InvalidateAll()
	}
}

// Stats returns one snapshot per level, most specific first.
func (c *Cache) Stats() []cache.Stats {
	out := make([]cache.Stats, 0, len(c.levels))
	for _, l := range c.levels {
		out = append(out, l.store.Stats())
	}
	return out
}

// Sweepers exposes the level stores to a janitor.
func (c *Cache) Sweepers() []cache.Sweeper {
	out := make([]cache.Sweeper, 0, len(c.levels))
	for _, l := range c.levels {
		out = append(out, l.store)
	}
	return out
}
