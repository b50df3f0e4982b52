package resultstore

import (
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/specscope/internal/core/ports"
	"go.trai.ch/zerr"
)

// New selects the backend named by cfg. A relative file store path is resolved
// against root. The returned close function is never nil. The "none" backend
// yields a nil store.
func New(cfg domain.StoreConfig, root string) (ports.ResultStore, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case "", domain.StoreBackendNone:
		return nil, noop, nil
	case domain.StoreBackendFile:
		dir := cfg.Path
		if dir == "" {
			dir = domain.DefaultResultStorePath()
		}
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		return NewFileStore(dir), noop, nil
	case domain.StoreBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		store := NewRedisStore(client, cfg.KeyPrefix)
		return store, store.Close, nil
	default:
		return nil, noop, zerr.With(domain.ErrUnknownStoreBackend, "backend", cfg.Backend)
	}
}
