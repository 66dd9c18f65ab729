// Package secrets contains the core data model for the secret cache: the
// TTL-bound store, the cached entry type, and the error taxonomy shared by
// the client facade and the providers.
package secrets

import (
	"sync"
	"time"
)

// Store is a concurrent mapping from secret key to a cached value with an
// expiry. It is the only mutable state shared between the foreground fetch
// path and the background refresh loop; both synchronize exclusively through
// its methods.
//
// Store is thread-safe. A reader observes either the previous entry or the
// fully replaced one, never a mix of old value and new expiry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]CachedSecret

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// NewStore creates an empty secret store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]CachedSecret),
		now:     time.Now,
	}
}

// NewStoreWithClock creates a store that uses the given clock function.
// Passing nil falls back to time.Now.
func NewStoreWithClock(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		entries: make(map[string]CachedSecret),
		now:     now,
	}
}

// Get returns the cached entry for key, expired or not. The second return
// value reports whether an entry exists. Get never blocks on provider calls.
func (s *Store) Get(key string) (CachedSecret, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	return entry, ok
}

// Put atomically replaces the entry for key with a fresh value whose expiry
// is now + ttl. The previous entry, if any, is discarded regardless of its
// remaining freshness.
func (s *Store) Put(key, value string, ttl time.Duration) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = CachedSecret{
		Value:     value,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// Delete removes the entry for key, if present.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Keys returns a point-in-time snapshot of the keys currently resident in
// the store. The refresh loop iterates this snapshot so that refresh work is
// never blocked by concurrent mutation; keys added mid-refresh are picked up
// on the next tick.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the current number of entries. Useful for metrics and tests.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
