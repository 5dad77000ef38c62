package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process Store. Entries live for the lifetime of the
// process or until their TTL passes. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemory returns an empty in-process store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get returns the entry for a category, or (nil, nil) on a miss.
func (m *Memory) Get(_ context.Context, category string) (*Entry, error) {
	m.mu.RLock()
	me, ok := m.entries[category]
	m.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !me.expiresAt.IsZero() && time.Now().After(me.expiresAt) {
		return nil, nil
	}
	entry := me.entry
	return &entry, nil
}

// Set publishes an entry, replacing any previous one for the category.
func (m *Memory) Set(_ context.Context, entry *Entry, ttl time.Duration) error {
	me := memoryEntry{entry: *entry}
	if ttl > 0 {
		me.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[entry.Category] = me
	m.mu.Unlock()
	return nil
}

// Delete removes a category's entry.
func (m *Memory) Delete(_ context.Context, category string) error {
	m.mu.Lock()
	delete(m.entries, category)
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the in-process store.
func (m *Memory) Close() error { return nil }
