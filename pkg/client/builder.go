package client

import (
	"log/slog"
	"time"

	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// Builder assembles a Client. Provider and TTL are required; everything
// else has a sensible default.
//
// Example:
//
//	cli, err := client.NewBuilder().
//		WithProvider(provider).
//		WithTTL(5 * time.Minute).
//		Build()
type Builder struct {
	provider        providers.Provider
	ttl             time.Duration
	refreshInterval time.Duration
	policy          FallbackPolicy
	metrics         *metrics.Collector
	auditor         audit.Recorder
	now             func() time.Time
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithProvider sets the secret backend. Required.
func (b *Builder) WithProvider(p providers.Provider) *Builder {
	b.provider = p
	return b
}

// WithTTL sets how long fetched values stay fresh. Required.
func (b *Builder) WithTTL(ttl time.Duration) *Builder {
	b.ttl = ttl
	return b
}

// WithRefreshInterval sets the background refresh period. Defaults to the
// TTL, so entries are revisited as they expire.
func (b *Builder) WithRefreshInterval(interval time.Duration) *Builder {
	b.refreshInterval = interval
	return b
}

// WithFallbackPolicy sets the stale-serve policy. Defaults to
// ServeStaleAlways.
func (b *Builder) WithFallbackPolicy(policy FallbackPolicy) *Builder {
	b.policy = policy
	return b
}

// WithMetrics attaches a metrics collector.
func (b *Builder) WithMetrics(collector *metrics.Collector) *Builder {
	b.metrics = collector
	return b
}

// WithAudit attaches an audit recorder.
func (b *Builder) WithAudit(recorder audit.Recorder) *Builder {
	b.auditor = recorder
	return b
}

// WithClock overrides the wall clock. Used by tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration, constructs the client, and starts its
// refresh loop. It fails with a *secrets.ConfigError when the provider or
// TTL is missing; nothing is started in that case.
func (b *Builder) Build() (*Client, error) {
	if b.provider == nil {
		return nil, &secrets.ConfigError{Field: "provider", Message: "a secret provider is required"}
	}
	if b.ttl <= 0 {
		return nil, &secrets.ConfigError{Field: "ttl", Message: "a positive cache TTL is required"}
	}

	refreshInterval := b.refreshInterval
	if refreshInterval <= 0 {
		refreshInterval = b.ttl
	}

	policy := b.policy
	if policy == nil {
		policy = ServeStaleAlways{}
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	c := &Client{
		provider:        b.provider,
		store:           secrets.NewStoreWithClock(now),
		ttl:             b.ttl,
		refreshInterval: refreshInterval,
		policy:          policy,
		metrics:         b.metrics,
		auditor:         b.auditor,
		logger: slog.Default().With(
			"component", "secrets.client",
			"provider", b.provider.Name(),
		),
		now:            now,
		done:           make(chan struct{}),
		refreshStopped: make(chan struct{}),
	}

	go c.runRefreshLoop()

	return c, nil
}
