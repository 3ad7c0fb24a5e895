package store

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]map[string][]byte
}

// NewMemory returns an in-memory Store used by tests and ephemeral dev runs.
func NewMemory() Store {
	return &memoryStore{entries: map[string]map[string][]byte{}}
}

func (s *memoryStore) Get(_ context.Context, scope, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.entries[scope][key]
	if !ok {
		return nil, ErrNotFound
	}
	dup := make([]byte, len(raw))
	copy(dup, raw)
	return dup, nil
}

func (s *memoryStore) Put(_ context.Context, scope, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries[scope] == nil {
		s.entries[scope] = map[string][]byte{}
	}
	dup := make([]byte, len(value))
	copy(dup, value)
	s.entries[scope][key] = dup
	return nil
}

func (s *memoryStore) Delete(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[scope], key)
	return nil
}

func (s *memoryStore) DeleteScope(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, scope)
	return nil
}
