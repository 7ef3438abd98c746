package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/courtsight/draft-assistant/internal/platform/resilience"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Store is a TTL cache that keeps expired entries around. A key is in one of
// three states: absent, fresh (age < TTL), or stale (age >= TTL). Stale
// values stay readable through GetStale so callers can fall back to the last
// good snapshot when a refresh fails.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  resilience.SingleFlight
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) fresh(e entry) bool {
	if s.ttl <= 0 {
		return true
	}
	return s.now().Sub(e.storedAt) < s.ttl
}

// Get returns the value only while it is fresh. Expired entries are not
// purged here; they remain available to GetStale.
func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok || !s.fresh(e) {
		return nil, false
	}

	return e.value, true
}

// GetStale returns the value regardless of age. The second result reports
// whether the entry is still fresh.
func (s *Store) GetStale(_ context.Context, key string) (any, bool, bool) {
	if key == "" {
		return nil, false, false
	}

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, false
	}

	return e.value, s.fresh(e), true
}

// Set stores the value wholesale. An existing entry is replaced, never
// merged.
func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:    value,
		storedAt: s.now(),
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the fresh value for key, loading it at most once across
// concurrent callers. A load error is returned as-is; the caller decides
// whether to fall back to GetStale.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}
