package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore keeps entries in memory and is safe for concurrent use.
// Listing order is ascending by key.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore constructs a MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Set stores value under key, overwriting any previous value.
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Get returns the value stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// List returns items whose keys match the prefix pattern, sorted by key.
func (s *MemoryStore) List(ctx context.Context, pattern string, withValues bool) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix, err := patternPrefix(pattern)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	items := make([]Item, 0, len(s.entries))
	for key, value := range s.entries {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		item := Item{Key: key}
		if withValues {
			item.Value = value
		}
		items = append(items, item)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	return items, nil
}

var _ Store = (*MemoryStore)(nil)
