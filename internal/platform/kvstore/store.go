// Package kvstore is the durable key-value contract behind local board storage.
package kvstore

import (
	"context"
	"errors"
	"sync"
)

// ErrQuotaExceeded is returned when a write does not fit in the store.
var ErrQuotaExceeded = errors.New("key-value store quota exceeded")

// Store keeps opaque values by key. Get reports a missing key with ok=false.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryStore is an in-process Store. A positive quota caps the total size
// of stored values in bytes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	quota   int
	used    int
}

func NewMemoryStore(quota int) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		quota:   quota,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), value...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	used := s.used - len(s.entries[key]) + len(value)
	if s.quota > 0 && used > s.quota {
		return ErrQuotaExceeded
	}

	s.entries[key] = append([]byte(nil), value...)
	s.used = used
	return nil
}
