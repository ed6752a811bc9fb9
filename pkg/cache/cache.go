// Package cache provides the injected TTL cache used to memoize external
// provider calls. Entries are keyed by operation plus arguments and carry
// their own expiry; the store itself is bounded and process-lifetime
// scoped. Concurrent lookups of the same missing key are collapsed into a
// single producer call.
package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Service is a bounded get-or-compute TTL cache.
type Service struct {
	store  *lru.LRU[string, entry]
	group  singleflight.Group
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cumulative cache behaviour for diagnostics.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// New creates a cache holding at most capacity entries. maxTTL bounds the
// lifetime of any entry regardless of the per-call TTL.
func New(capacity int, maxTTL time.Duration) *Service {
	if capacity <= 0 {
		capacity = 4096
	}
	return &Service{
		store: lru.NewLRU[string, entry](capacity, nil, maxTTL),
	}
}

// GetOrCompute returns the cached value for key, or runs produce and
// caches its result for ttl. Errors are never cached. Simultaneous calls
// for the same key share one produce invocation.
func (s *Service) GetOrCompute(key string, ttl time.Duration, produce func() (any, error)) (any, error) {
	if e, ok := s.store.Get(key); ok && time.Now().Before(e.expiresAt) {
		s.hits.Add(1)
		return e.value, nil
	}
	s.misses.Add(1)

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Re-check: another caller may have populated the key while we
		// waited on the flight group.
		if e, ok := s.store.Get(key); ok && time.Now().Before(e.expiresAt) {
			return e.value, nil
		}
		value, err := produce()
		if err != nil {
			return nil, err
		}
		s.store.Add(key, entry{value: value, expiresAt: time.Now().Add(ttl)})
		return value, nil
	})
	return v, err
}

// Remove drops a key, forcing the next lookup to recompute.
func (s *Service) Remove(key string) {
	s.store.Remove(key)
}

// Stats returns current cache counters.
func (s *Service) Stats() Stats {
	return Stats{
		Entries: s.store.Len(),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
}
