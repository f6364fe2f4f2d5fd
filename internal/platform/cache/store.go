package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || e.expiresAt.After(now)
}

// Store is a process-local read-through cache for repository lookups.
// Concurrent loads of one key share a single loader call, and a load that
// started before an invalidation never writes its result back.
type Store struct {
	ttl    time.Duration
	now    func() time.Time
	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
	epoch   uint64
}

// NewStore returns a store whose entries expire after ttl. A zero ttl keeps
// entries until they are invalidated.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

// Load returns the cached value for key or calls loader to fill it.
// An empty key bypasses the cache.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	if key == "" {
		return loader(ctx)
	}

	if v, ok := s.lookup(key); ok {
		return cast[T](key, v)
	}

	epoch := s.currentEpoch()
	v, err, _ := s.flight.Do(key+"@"+strconv.FormatUint(epoch, 10), func() (any, error) {
		if cached, ok := s.lookup(key); ok {
			return cached, nil
		}
		loaded, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		s.fill(key, loaded, epoch)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}
	return cast[T](key, v)
}

// Invalidate drops keys and fences off loads already in flight.
func (s *Store) Invalidate(_ context.Context, keys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	for _, key := range keys {
		delete(s.entries, key)
	}
}

// InvalidatePrefix drops every key starting with prefix.
func (s *Store) InvalidatePrefix(_ context.Context, prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
}

func (s *Store) lookup(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if !e.live(s.now()) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

func (s *Store) fill(key string, value any, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return
	}
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = e
}

func cast[T any](key string, v any) (T, error) {
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cached value for %q has type %T", key, v)
	}
	return out, nil
}
