// Package awssm implements a secret provider backed by AWS Secrets Manager.
//
// Each cache key maps to a Secrets Manager secret name or ARN. String
// secrets are returned as-is; binary secrets are returned as the raw bytes
// converted to a string.
package awssm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
)

// API is the subset of the Secrets Manager client used by the provider.
// It exists so unit tests can substitute a fake without AWS credentials.
type API interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
	ListSecrets(
		ctx context.Context,
		params *secretsmanager.ListSecretsInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.ListSecretsOutput, error)
}

// Provider retrieves secrets from AWS Secrets Manager.
type Provider struct {
	name    string
	client  API
	timeout time.Duration
}

// New creates an AWS Secrets Manager provider. Credentials and region are
// resolved through the SDK's default chain; cfg.Region and cfg.Endpoint
// override it (the endpoint override is intended for LocalStack).
func New(ctx context.Context, cfg providers.Config) (*Provider, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	var clientOpts []func(*secretsmanager.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	name := cfg.Name
	if name == "" {
		name = providers.TypeAWSSM
	}

	return &Provider{
		name:    name,
		client:  secretsmanager.NewFromConfig(awsCfg, clientOpts...),
		timeout: cfg.CallTimeout(),
	}, nil
}

// NewWithClient creates a provider around an existing API client. Used by
// tests and by callers that manage their own AWS configuration.
func NewWithClient(name string, client API, timeout time.Duration) *Provider {
	if name == "" {
		name = providers.TypeAWSSM
	}
	if timeout <= 0 {
		timeout = providers.DefaultTimeout
	}
	return &Provider{name: name, client: client, timeout: timeout}
}

// Retrieve fetches the current version of the named secret.
func (p *Provider) Retrieve(ctx context.Context, key string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.client.GetSecretValue(callCtx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(key),
	})
	if err != nil {
		return "", &secrets.ProviderError{Provider: p.name, Key: key, Cause: err}
	}

	if out.SecretString != nil {
		return *out.SecretString, nil
	}
	if out.SecretBinary != nil {
		return string(out.SecretBinary), nil
	}
	return "", &secrets.ProviderError{
		Provider: p.name,
		Key:      key,
		Cause:    errors.New("secret has no value"),
	}
}

// Name returns the provider's configured instance name.
func (p *Provider) Name() string { return p.name }

// Type returns the provider variant.
func (p *Provider) Type() string { return providers.TypeAWSSM }

// HealthCheck issues a minimal ListSecrets call to verify connectivity and
// credentials.
func (p *Provider) HealthCheck(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.client.ListSecrets(callCtx, &secretsmanager.ListSecretsInput{
		MaxResults: aws.Int32(1),
	})
	if err != nil {
		return fmt.Errorf("secrets manager health check failed: %w", err)
	}
	return nil
}

// Close releases the provider. The SDK client needs no explicit teardown.
func (p *Provider) Close() error {
	return nil
}
