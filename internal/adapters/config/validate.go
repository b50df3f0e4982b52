package config

import (
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

// Validate rejects values the components cannot work with.
func Validate(cfg domain.Config) error {
	invalid := func(field string, value any) error {
		return zerr.With(zerr.With(domain.ErrInvalidConfig, "field", field), "value", value)
	}

	for name, level := range map[string]domain.CacheLevelConfig{
		"cache.parse":    cfg.Cache.Parse,
		"cache.spec":     cfg.Cache.Spec,
		"cache.findings": cfg.Cache.Findings,
		"cache.graph":    cfg.Cache.Graph,
	} {
		if level.Capacity <= 0 {
			return invalid(name+".capacity", level.Capacity)
		}
		if level.TTL < 0 {
			return invalid(name+".ttl", level.TTL.String())
		}
	}

	switch {
	case cfg.Engine.Budget <= 0:
		return invalid("engine.budget", cfg.Engine.Budget.String())
	case cfg.Engine.TriageTimeout <= 0:
		return invalid("engine.triageTimeout", cfg.Engine.TriageTimeout.String())
	case cfg.Engine.DeepTimeout <= 0:
		return invalid("engine.deepTimeout", cfg.Engine.DeepTimeout.String())
	case cfg.Engine.TriageShare <= 0 || cfg.Engine.TriageShare > 1:
		return invalid("engine.triageShare", cfg.Engine.TriageShare)
	case cfg.Engine.RateLimit < 0:
		return invalid("engine.rateLimit", cfg.Engine.RateLimit)
	case cfg.Engine.MaxRetries < 0:
		return invalid("engine.maxRetries", cfg.Engine.MaxRetries)
	case cfg.Enricher.MaxDependents <= 0:
		return invalid("enricher.maxDependents", cfg.Enricher.MaxDependents)
	case cfg.Enricher.MaxPathDepth <= 0:
		return invalid("enricher.maxPathDepth", cfg.Enricher.MaxPathDepth)
	}

	switch cfg.Store.Backend {
	case domain.StoreBackendNone, domain.StoreBackendFile:
	case domain.StoreBackendRedis:
		if cfg.Store.RedisAddr == "" {
			return invalid("store.redisAddr", "")
		}
	default:
		return zerr.With(domain.ErrUnknownStoreBackend, "backend", cfg.Store.Backend)
	}
	return nil
}
