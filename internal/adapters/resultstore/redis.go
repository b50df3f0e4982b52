package resultstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

// RedisStore implements ports.ResultStore on a Redis instance shared by several
// processes. Values are JSON with the entry TTL applied by Redis.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps client. Every key is prefixed with prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Get retrieves the result stored under key.
// Returns nil, nil if not found.
func (s *RedisStore) Get(ctx context.Context, key string) (*domain.AnalysisResult, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "key", key)
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreUnmarshalFailed.Error()), "key", key)
	}
	return &result, nil
}

// Put stores the result under key for ttl. A non-positive ttl never expires.
func (s *RedisStore) Put(ctx context.Context, key string, result domain.AnalysisResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "key", key)
	}
	return nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
