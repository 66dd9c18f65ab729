package client

import (
	"time"

	"mercator-hq/ganymede/pkg/secrets"
)

// FallbackPolicy decides whether an expired cached entry may be served when
// a live fetch for its key fails.
type FallbackPolicy interface {
	// ServeStale reports whether the entry should be served. The cause is
	// the provider failure that triggered the fallback.
	ServeStale(entry secrets.CachedSecret, now time.Time, cause error) bool
}

// ServeStaleAlways serves any resident entry, however old. This is the
// default policy: availability over freshness.
type ServeStaleAlways struct{}

// ServeStale implements FallbackPolicy.
func (ServeStaleAlways) ServeStale(secrets.CachedSecret, time.Time, error) bool {
	return true
}

// ServeStaleNever propagates every fetch failure to the caller.
type ServeStaleNever struct{}

// ServeStale implements FallbackPolicy.
func (ServeStaleNever) ServeStale(secrets.CachedSecret, time.Time, error) bool {
	return false
}

// ServeStaleWithin serves a stale entry only while its age is at most the
// given bound. Beyond it the failure propagates.
type ServeStaleWithin struct {
	// MaxAge is the oldest an entry may be and still be served.
	MaxAge time.Duration
}

// ServeStale implements FallbackPolicy.
func (p ServeStaleWithin) ServeStale(entry secrets.CachedSecret, now time.Time, _ error) bool {
	return entry.Age(now) <= p.MaxAge
}
