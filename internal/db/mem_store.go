package db

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and local tooling.
// Production uses PgStore through the same interface; no process-global
// mutable state belongs in the core.
type MemStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string][]byte)}
}

// LoadProgress returns a copy of the stored record bytes.
func (s *MemStore) LoadProgress(_ context.Context, playerID string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.records[playerID]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true, nil
}

// SaveProgress stores a copy of the record bytes.
func (s *MemStore) SaveProgress(_ context.Context, playerID string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]byte, len(raw))
	copy(cp, raw)
	s.records[playerID] = cp
	return nil
}

// Put seeds a raw record directly, bypassing validation. Test helper for
// corrupted-input scenarios.
func (s *MemStore) Put(playerID string, raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[playerID] = raw
}
