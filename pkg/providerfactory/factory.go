// Package providerfactory constructs secret providers from configuration.
//
// It is the single place that knows the closed set of backend variants;
// everything else handles providers through the providers.Provider
// interface.
package providerfactory

import (
	"context"
	"fmt"
	"log/slog"

	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/providers/awssm"
	"mercator-hq/ganymede/pkg/providers/file"
	"mercator-hq/ganymede/pkg/providers/static"
	"mercator-hq/ganymede/pkg/providers/vault"
)

// New creates a provider for the variant named by cfg.Type.
// Unknown variants are an error; the set is closed on purpose.
func New(ctx context.Context, cfg providers.Config) (providers.Provider, error) {
	switch cfg.Type {
	case providers.TypeVault:
		return vault.New(cfg)
	case providers.TypeAWSSM:
		return awssm.New(ctx, cfg)
	case providers.TypeFile:
		return file.New(cfg)
	case providers.TypeStatic:
		return static.New(cfg), nil
	case "":
		return nil, fmt.Errorf("provider type must be set")
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}

// NewVerified creates a provider and runs a health check against it before
// returning. A failed check is logged but not fatal: a backend that is down
// at startup can still recover, and the cache's stale-serve policy covers
// the gap.
func NewVerified(ctx context.Context, cfg providers.Config) (providers.Provider, error) {
	provider, err := New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := provider.HealthCheck(ctx); err != nil {
		slog.Warn("provider unhealthy at startup",
			"provider", provider.Name(),
			"type", provider.Type(),
			"error", err,
		)
	} else {
		slog.Info("provider ready",
			"provider", provider.Name(),
			"type", provider.Type(),
		)
	}

	return provider, nil
}
