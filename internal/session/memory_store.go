package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	op        Operator
	expiresAt time.Time
}

// MemoryStore keeps refresh sessions in process memory. Sessions are lost on
// restart and not shared between instances.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) SaveRefreshSession(_ context.Context, tokenHash string, op Operator, expiresAt time.Time) error {
	op.CreatedAt = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[tokenHash] = memoryEntry{op: op, expiresAt: expiresAt}
	return nil
}

func (s *MemoryStore) LookupRefreshSession(_ context.Context, tokenHash string) (Operator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[tokenHash]
	if !ok {
		return Operator{}, ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, tokenHash)
		return Operator{}, ErrNotFound
	}
	if entry.op.Role == "" {
		entry.op.Role = "viewer"
	}
	return entry.op, nil
}

func (s *MemoryStore) RevokeRefreshSession(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, tokenHash)
	return nil
}
