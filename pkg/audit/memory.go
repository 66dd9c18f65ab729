package audit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps audit events in memory. Events are lost when the
// process exits; use SQLiteStore when the trail must survive restarts.
//
// MemoryStore is thread-safe.
type MemoryStore struct {
	mu     sync.RWMutex
	events []*Event
}

// NewMemoryStore creates an empty in-memory audit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append stores one event.
func (m *MemoryStore) Append(ctx context.Context, event *Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = append(m.events, event)
	return nil
}

// Query returns matching events, newest first.
func (m *MemoryStore) Query(ctx context.Context, filter Filter) ([]*Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []*Event
	for i := len(m.events) - 1; i >= 0; i-- {
		event := m.events[i]
		if filter.Key != "" && event.Key != filter.Key {
			continue
		}
		if filter.Operation != "" && event.Operation != filter.Operation {
			continue
		}
		if !filter.Since.IsZero() && event.Timestamp.Before(filter.Since) {
			continue
		}
		results = append(results, event)
		if filter.Limit > 0 && len(results) >= filter.Limit {
			break
		}
	}
	return results, nil
}

// Prune removes events older than the given time.
func (m *MemoryStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.events[:0]
	var removed int64
	for _, event := range m.events {
		if event.Timestamp.Before(olderThan) {
			removed++
			continue
		}
		kept = append(kept, event)
	}
	m.events = kept
	return removed, nil
}

// Count returns the number of stored events.
func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.events)), nil
}

// Close releases nothing for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
