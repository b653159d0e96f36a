package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type memoryKey struct {
	accountID  string
	collection Collection
}

// MemoryStore is an in-memory implementation of the Backend interface
type MemoryStore struct {
	entries map[memoryKey][]string
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[memoryKey][]string),
		logger:  logger,
	}
}

// List returns a copy of the entries
func (s *MemoryStore) List(_ context.Context, accountID string, collection Collection) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.entries[memoryKey{accountID, collection}]...), nil
}

// Add appends an entry unless it is already present
func (s *MemoryStore) Add(_ context.Context, accountID string, collection Collection, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{accountID, collection}
	for _, existing := range s.entries[key] {
		if existing == value {
			return nil
		}
	}
	s.entries[key] = append(s.entries[key], value)
	return nil
}

// Remove deletes every matching entry
func (s *MemoryStore) Remove(_ context.Context, accountID string, collection Collection, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey{accountID, collection}
	kept := s.entries[key][:0]
	for _, existing := range s.entries[key] {
		if existing != value {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		delete(s.entries, key)
		return nil
	}
	s.entries[key] = kept
	return nil
}

// Close does nothing
func (s *MemoryStore) Close() error {
	s.logger.Debug("Memory store closed")
	return nil
}
