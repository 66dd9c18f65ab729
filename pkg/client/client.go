// Package client provides the secrets client facade: a TTL cache in front
// of a secret provider, with single-flight fetching, stale-serve fallback,
// and a background refresh loop.
//
// The client is built with a Builder, serves Get calls while active, and is
// shut down with Shutdown. The store is the only state shared between the
// foreground fetch path and the refresh loop; the two synchronize solely
// through its atomic operations.
package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// Client is the secrets cache facade. It owns its store and refresh loop;
// the provider is injected and may be shared.
type Client struct {
	provider        providers.Provider
	store           *secrets.Store
	ttl             time.Duration
	refreshInterval time.Duration
	policy          FallbackPolicy

	metrics *metrics.Collector
	auditor audit.Recorder
	logger  *slog.Logger
	now     func() time.Time

	flight singleflight.Group

	shut           atomic.Bool
	shutdownOnce   sync.Once
	done           chan struct{}
	refreshStopped chan struct{}
}

// Get returns the value of the named secret.
//
// A fresh cached value is returned immediately. On a miss or an expired
// entry, concurrent callers for the same key collapse into one provider
// call and all observe its outcome. If that call fails and an expired entry
// is still resident, the stale value is served and a warning recorded;
// otherwise Get fails with a *secrets.FetchError.
//
// A caller may bound its own wait with ctx; expiry surfaces as a FetchError
// for that caller only and does not cancel the shared provider call.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c.shut.Load() {
		return "", &secrets.ShutdownError{Op: "get"}
	}
	if key == "" {
		return "", &secrets.FetchError{Key: key, Cause: errors.New("empty key")}
	}

	if entry, ok := c.store.Get(key); ok && !entry.Expired(c.now()) {
		if c.metrics != nil {
			c.metrics.RecordHit()
		}
		if c.auditor != nil {
			c.auditor.Record(ctx, audit.OpGet, key, c.provider.Name(), true, false, nil)
		}
		return entry.Value, nil
	}

	if c.metrics != nil {
		c.metrics.RecordMiss()
	}

	// The fetch runs detached from any single caller's context so that one
	// caller's timeout cannot fail the whole single-flight group.
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(key, func() (any, error) {
		return c.fetch(flightCtx, key)
	})

	select {
	case <-ctx.Done():
		err := &secrets.FetchError{Key: key, Cause: ctx.Err()}
		if c.auditor != nil {
			c.auditor.Record(ctx, audit.OpGet, key, c.provider.Name(), false, false, ctx.Err())
		}
		return "", err

	case res := <-ch:
		if res.Err == nil {
			value := res.Val.(string)
			if c.auditor != nil {
				c.auditor.Record(ctx, audit.OpGet, key, c.provider.Name(), true, false, nil)
			}
			return value, nil
		}
		return c.fallback(ctx, key, res.Err)
	}
}

// fetch performs one provider call and writes the result through to the
// store. It is the body of a single-flight group.
func (c *Client) fetch(ctx context.Context, key string) (string, error) {
	start := c.now()
	value, err := c.provider.Retrieve(ctx, key)
	elapsed := c.now().Sub(start)

	if c.metrics != nil {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailure
		}
		c.metrics.RecordProviderCall(c.provider.Name(), outcome, elapsed)
	}

	if err != nil {
		return "", err
	}

	c.store.Put(key, value, c.ttl)
	if c.metrics != nil {
		c.metrics.UpdateEntries(c.store.Len())
	}
	return value, nil
}

// fallback applies the stale-serve policy after a failed fetch.
func (c *Client) fallback(ctx context.Context, key string, cause error) (string, error) {
	if entry, ok := c.store.Get(key); ok && c.policy.ServeStale(entry, c.now(), cause) {
		c.logger.Warn("serving stale secret after failed fetch",
			"key", key,
			"age", entry.Age(c.now()),
			"error", cause,
		)
		if c.metrics != nil {
			c.metrics.RecordStaleServe()
		}
		if c.auditor != nil {
			c.auditor.Record(ctx, audit.OpGet, key, c.provider.Name(), true, true, cause)
		}
		return entry.Value, nil
	}

	if c.auditor != nil {
		c.auditor.Record(ctx, audit.OpGet, key, c.provider.Name(), false, false, cause)
	}
	return "", &secrets.FetchError{Key: key, Cause: cause}
}

// Warm fetches the given keys so the cache starts populated. Failures are
// collected and returned joined; successfully fetched keys stay cached
// either way.
func (c *Client) Warm(ctx context.Context, keys []string) error {
	if c.shut.Load() {
		return &secrets.ShutdownError{Op: "warm"}
	}

	var errs []error
	for _, key := range keys {
		value, err := c.provider.Retrieve(ctx, key)
		if err != nil {
			c.logger.Warn("warm-up fetch failed", "key", key, "error", err)
			if c.auditor != nil {
				c.auditor.Record(ctx, audit.OpWarmup, key, c.provider.Name(), false, false, err)
			}
			errs = append(errs, err)
			continue
		}
		c.store.Put(key, value, c.ttl)
		if c.auditor != nil {
			c.auditor.Record(ctx, audit.OpWarmup, key, c.provider.Name(), true, false, nil)
		}
	}

	if c.metrics != nil {
		c.metrics.UpdateEntries(c.store.Len())
	}
	return errors.Join(errs...)
}

// Len returns the number of cached entries.
func (c *Client) Len() int {
	return c.store.Len()
}

// Shutdown stops the refresh loop and waits for a tick in progress to
// complete. Subsequent Get calls fail with a *secrets.ShutdownError.
// Shutdown is idempotent.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.shut.Store(true)
		close(c.done)
		<-c.refreshStopped
		c.logger.Info("secrets client shut down")
	})
}
