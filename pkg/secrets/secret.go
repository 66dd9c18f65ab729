package secrets

import "time"

// CachedSecret is a single secret value held by the Store together with its
// freshness window. Entries are immutable: a refresh installs a replacement
// value, it never mutates an existing one.
type CachedSecret struct {
	// Value is the secret material as retrieved from the provider.
	Value string

	// CreatedAt is when this entry was installed in the store.
	CreatedAt time.Time

	// ExpiresAt is when this entry stops being fresh. An expired entry is
	// still served as a stale fallback until a refresh replaces it.
	ExpiresAt time.Time
}

// Expired reports whether the entry is no longer fresh at the given time.
func (c CachedSecret) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Age returns how long ago the entry was created.
func (c CachedSecret) Age(now time.Time) time.Duration {
	return now.Sub(c.CreatedAt)
}
