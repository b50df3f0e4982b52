// Package cache implements a capacity-bounded, TTL-expiring key/value store
// shared by every logical cache in the process.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"go.trai.ch/specscope/internal/core/domain"
	"go.trai.ch/zerr"
)

// Stats is a point-in-time snapshot of a store's counters.
type Stats struct {
	Name        string `json:"name"`
	Size        int    `json:"size"`
	Capacity    int    `json:"capacity"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
}

// StatsSource is anything that can report cache statistics.
type StatsSource interface {
	Stats() Stats
}

// Sweeper reclaims expired entries ahead of lazy expiry.
type Sweeper interface {
	Sweep() int
}

type entry[V any] struct {
	value        V
	createdAt    time.Time
	expiresAt    time.Time
	lastAccessed time.Time
}

func (e *entry[V]) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now        func() time.Time
	defaultTTL time.Duration
}

// WithClock overrides the time source. Used by tests to simulate expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithDefaultTTL sets the TTL used when Put is called with a non-positive ttl.
// Without it such entries never expire.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.defaultTTL = ttl
	}
}

// Store is a thread-safe LRU cache with per-entry TTL. Expiry is checked lazily on Get.
// All mutations, including eviction, happen under a single mutex.
type Store[K comparable, V any] struct {
	name     string
	capacity int
	opts     options

	mu          sync.Mutex
	lru         *simplelru.LRU[K, *entry[V]]
	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// New creates a store holding at most capacity entries.
func New[K comparable, V any](name string, capacity int, opts ...Option) (*Store[K, V], error) {
	if capacity <= 0 {
		err := zerr.With(domain.ErrInvalidConfig, "cache", name)
		return nil, zerr.With(err, "capacity", capacity)
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	// Evictions are counted from Add's return value: simplelru also invokes the
	// callback on Remove and Purge.
	lru, err := simplelru.NewLRU[K, *entry[V]](capacity, nil)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create lru")
	}

	return &Store[K, V]{
		name:     name,
		capacity: capacity,
		opts:     o,
		lru:      lru,
	}, nil
}

// Name returns the logical cache name.
func (s *Store[K, V]) Name() string {
	return s.name
}

// Get returns the value stored under key. An expired entry is removed and reported
// as a miss.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero V
	e, ok := s.lru.Get(key)
	if !ok {
		s.misses++
		return zero, false
	}

	now := s.opts.now()
	if e.expired(now) {
		s.lru.Remove(key)
		s.expirations++
		s.misses++
		return zero, false
	}

	e.lastAccessed = now
	s.hits++
	return e.value, true
}

// Put stores value under key for ttl. A non-positive ttl falls back to the store's
// default. Exceeding capacity evicts the least recently used entry.
func (s *Store[K, V]) Put(key K, value V, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.opts.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	e := &entry[V]{
		value:        value,
		createdAt:    now,
		lastAccessed: now,
	}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	if evicted := s.lru.Add(key, e); evicted {
		s.evictions++
	}
}

// Invalidate removes key. It reports whether an entry was present.
func (s *Store[K, V]) Invalidate(key K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lru.Remove(key)
}

// InvalidateAll removes every entry. Counters are kept.
func (s *Store[K, V]) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lru.Purge()
}

// Len returns the number of entries, including expired ones not yet reclaimed.
func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lru.Len()
}

// Stats returns a snapshot of the store's counters.
func (s *Store[K, V]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Stats{
		Name:        s.name,
		Size:        s.lru.Len(),
		Capacity:    s.capacity,
		Hits:        s.hits,
		Misses:      s.misses,
		Evictions:   s.evictions,
		Expirations: s.expirations,
	}
}

// Sweep removes every expired entry and returns how many were reclaimed.
// Recency is not affected.
func (s *Store[K, V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.opts.now()
	removed := 0
	for _, key := range s.lru.Keys() {
		if e, ok := s.lru.Peek(key); ok && e.expired(now) {
			s.lru.Remove(key)
			removed++
		}
	}
	s.expirations += uint64(removed) //nolint:gosec // removed is never negative
	return removed
}

// RunJanitor sweeps the given stores every interval until ctx is done.
func RunJanitor(ctx context.Context, interval time.Duration, stores ...Sweeper) {
	if interval <= 0 || len(stores) == 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, s := range stores {
				s.Sweep()
			}
		}
	}
}
