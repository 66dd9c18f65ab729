package client

import (
	"context"
	"time"

	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// runRefreshLoop revisits every resident key at the configured interval.
// The first pass runs one full interval after the client is built. The loop
// exits when Shutdown closes the done channel; a pass already underway at
// that point completes but no further pass is scheduled.
func (c *Client) runRefreshLoop() {
	defer close(c.refreshStopped)

	ticker := time.NewTicker(c.refreshInterval)
	defer ticker.Stop()

	c.logger.Info("refresh loop started", "interval", c.refreshInterval)

	for {
		select {
		case <-c.done:
			c.logger.Debug("refresh loop stopped")
			return
		case <-ticker.C:
			c.refreshAll()
		}
	}
}

// refreshAll performs one refresh pass over a snapshot of the store's keys.
// Keys added after the snapshot are picked up on the next pass. Each key is
// refreshed independently: a failure leaves the existing entry untouched
// and never aborts the rest of the pass.
func (c *Client) refreshAll() {
	ctx := context.Background()

	for _, key := range c.store.Keys() {
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
			c.logger.Warn("background refresh failed, keeping cached value",
				"key", key,
				"error", err,
			)
			if c.metrics != nil {
				c.metrics.RecordRefresh(metrics.OutcomeFailure)
			}
			if c.auditor != nil {
				c.auditor.Record(ctx, audit.OpRefresh, key, c.provider.Name(), false, false, err)
			}
			continue
		}

		// A successful refresh renews the full freshness window.
		c.store.Put(key, value, c.ttl)
		if c.metrics != nil {
			c.metrics.RecordRefresh(metrics.OutcomeSuccess)
		}
		if c.auditor != nil {
			c.auditor.Record(ctx, audit.OpRefresh, key, c.provider.Name(), true, false, nil)
		}
	}

	if c.metrics != nil {
		c.metrics.UpdateEntries(c.store.Len())
	}
}
