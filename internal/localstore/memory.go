package localstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store for tests and ephemeral runs.
type MemoryStore struct {
	mu      sync.RWMutex
	buckets map[Bucket][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[Bucket][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, b Bucket) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.buckets[b]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate stored bytes.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, b Bucket, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.mu.Lock()
	s.buckets[b] = stored
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) SetIfAbsent(ctx context.Context, b Bucket, value []byte) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[b]; ok {
		return false, nil
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.buckets[b] = stored
	return true, nil
}
