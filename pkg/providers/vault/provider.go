// Package vault implements a secret provider backed by HashiCorp Vault's
// KV v2 secrets engine.
//
// Each cache key maps to a KV path under the configured mount; the secret
// value is read from a single field of the KV data map (default "value").
package vault

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/vault/api"

	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
)

// Provider retrieves secrets from a Vault KV v2 mount.
type Provider struct {
	name    string
	client  *api.Client
	mount   string
	field   string
	timeout time.Duration
}

// New creates a Vault provider from the given configuration. Address and
// token fall back to the standard VAULT_ADDR / VAULT_TOKEN environment
// variables when unset, matching the Vault SDK's own resolution.
func New(cfg providers.Config) (*Provider, error) {
	apiCfg := api.DefaultConfig()
	if cfg.Address != "" {
		apiCfg.Address = cfg.Address
	}

	client, err := api.NewClient(apiCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}

	mount := cfg.Mount
	if mount == "" {
		mount = "secret"
	}
	field := cfg.Field
	if field == "" {
		field = "value"
	}
	name := cfg.Name
	if name == "" {
		name = providers.TypeVault
	}

	return &Provider{
		name:    name,
		client:  client,
		mount:   mount,
		field:   field,
		timeout: cfg.CallTimeout(),
	}, nil
}

// Retrieve reads the secret at the KV v2 path named by key and returns the
// configured field of its data map.
func (p *Provider) Retrieve(ctx context.Context, key string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	secret, err := p.client.KVv2(p.mount).Get(callCtx, key)
	if err != nil {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: err}
	}

	value, ok := secret.Data[p.field].(string)
	if !ok {
		return "", &secrets.ProviderError{
			Provider: p.name,
			Key:      key,
			Cause:    fmt.Errorf("field %q missing or not a string", p.field),
		}
	}
	return value, nil
}

// Name returns the provider's configured instance name.
func (p *Provider) Name() string { return p.name }

// Type returns the provider variant.
func (p *Provider) Type() string { return providers.TypeVault }

// HealthCheck queries the Vault health endpoint.
func (p *Provider) HealthCheck(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	health, err := p.client.Sys().HealthWithContext(callCtx)
	if err != nil {
		return fmt.Errorf("vault health check failed: %w", err)
	}
	if health.Sealed {
		return errors.New("vault is sealed")
	}
	return nil
}

// Close releases the provider. The Vault client holds no long-lived
// connections that need explicit teardown.
func (p *Provider) Close() error {
	return nil
}
