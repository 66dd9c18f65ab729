// Package providers defines the abstraction over external secret backends.
//
// A Provider is an opaque capability that retrieves a secret value by key.
// The cache core treats every provider identically: providers are stateless
// from the cache's point of view, idempotent to call repeatedly, and report
// every failure (unreachable, denied, not found) as a *secrets.ProviderError
// so the fallback policy can treat them uniformly.
//
// The set of provider variants is closed and enumerated by Type; adding a
// backend means adding a variant to the factory in pkg/providerfactory, not
// subclassing an open hierarchy.
package providers

import "context"

// Provider is the interface all secret backend adapters implement.
//
// All methods accept a context.Context for cancellation and timeout control.
// Implementations must respect context cancellation and return promptly when
// the context ends.
type Provider interface {
	// Retrieve fetches the current value of the named secret from the
	// backend. A missing secret and an unreachable backend both return a
	// *secrets.ProviderError; they differ only in the wrapped cause.
	Retrieve(ctx context.Context, key string) (string, error)

	// Name returns the provider's configured instance name.
	Name() string

	// Type returns the provider variant (e.g., "vault", "awssm").
	Type() string

	// HealthCheck verifies the backend is reachable. Returns nil if
	// healthy, or an error describing the problem.
	HealthCheck(ctx context.Context) error

	// Close releases backend resources. After Close the provider must not
	// be used.
	Close() error
}
