// Package static implements an in-memory secret provider. It serves values
// from a map supplied at construction time and is intended for tests,
// examples, and bootstrap scenarios where no external backend exists.
package static

import (
	"context"
	"errors"
	"sync"

	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
)

// ErrNotFound is the cause wrapped in the ProviderError for unknown keys.
var ErrNotFound = errors.New("secret not found")

// Provider serves secrets from an in-memory map. It is thread-safe, and
// values can be replaced at runtime to simulate rotation in tests.
type Provider struct {
	name string

	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// New creates a static provider seeded from cfg.Values.
func New(cfg providers.Config) *Provider {
	values := make(map[string]string, len(cfg.Values))
	for k, v := range cfg.Values {
		values[k] = v
	}

	name := cfg.Name
	if name == "" {
		name = providers.TypeStatic
	}

	return &Provider{
		name:   name,
		values: values,
	}
}

// Retrieve returns the value for key, or a ProviderError wrapping
// ErrNotFound when the key is unknown.
func (p *Provider) Retrieve(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: err}
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: errors.New("provider closed")}
	}

	value, ok := p.values[key]
	if !ok {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: ErrNotFound}
	}
	return value, nil
}

// Set installs or replaces a value at runtime.
func (p *Provider) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

// Remove deletes a value at runtime.
func (p *Provider) Remove(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
}

// Name returns the provider's configured instance name.
func (p *Provider) Name() string { return p.name }

// Type returns the provider variant.
func (p *Provider) Type() string { return providers.TypeStatic }

// HealthCheck always succeeds while the provider is open.
func (p *Provider) HealthCheck(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return errors.New("provider closed")
	}
	return nil
}

// Close marks the provider closed. Subsequent calls fail.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
