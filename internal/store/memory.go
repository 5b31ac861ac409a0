package store

import (
	"context"
	"sync"
	"time"

	"github.com/httpsdevi/linksnap/internal/link"
)

// MemoryStore is an in-memory implementation of link.Repository, used in
// tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[link.Alias]*memoryEntry
}

// memoryEntry carries its own lock so increments on one alias never
// contend with increments on another.
type memoryEntry struct {
	mu   sync.Mutex
	link link.Link
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		links: make(map[link.Alias]*memoryEntry),
	}
}

func (m *MemoryStore) Create(_ context.Context, l *link.Link) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.links[l.Alias]; exists {
		return link.ErrAliasTaken
	}

	m.links[l.Alias] = &memoryEntry{link: *l}

	return nil
}

func (m *MemoryStore) GetByAlias(_ context.Context, alias link.Alias) (*link.Link, error) {
	m.mu.RLock()
	entry, ok := m.links[alias]
	m.mu.RUnlock()

	if !ok {
		return nil, link.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	return copyLink(&entry.link), nil
}

func (m *MemoryStore) IncrementClick(_ context.Context, alias link.Alias, at time.Time) (*link.Link, error) {
	m.mu.RLock()
	entry, ok := m.links[alias]
	m.mu.RUnlock()

	if !ok {
		return nil, link.ErrNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.link.ClickCount++
	clickedAt := at
	entry.link.LastClickedAt = &clickedAt

	return copyLink(&entry.link), nil
}

// copyLink returns a snapshot detached from the stored record, so callers
// can never mutate store state through the returned pointer.
func copyLink(l *link.Link) *link.Link {
	out := *l

	if l.LastClickedAt != nil {
		ts := *l.LastClickedAt
		out.LastClickedAt = &ts
	}

	return &out
}

// Compile-time check.
var _ link.Repository = (*MemoryStore)(nil)
