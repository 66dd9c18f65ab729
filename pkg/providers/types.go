package providers

import "time"

// Provider variant identifiers. This is the closed set of supported
// backends; pkg/providerfactory maps each one to its constructor.
const (
	// TypeVault is the HashiCorp Vault KV v2 backend.
	TypeVault = "vault"

	// TypeAWSSM is the AWS Secrets Manager backend.
	TypeAWSSM = "awssm"

	// TypeFile is the local directory backend (one file per secret).
	TypeFile = "file"

	// TypeStatic is the in-memory backend used for tests and bootstrap.
	TypeStatic = "static"
)

// Config describes a single provider instance. Only the fields relevant to
// the configured Type are consulted; the rest are ignored.
type Config struct {
	// Name identifies this provider instance (e.g., "vault-prod").
	Name string `yaml:"name"`

	// Type selects the backend variant: "vault", "awssm", "file", "static".
	Type string `yaml:"type"`

	// Timeout bounds individual backend calls. Zero means the default of
	// 10 seconds.
	Timeout time.Duration `yaml:"timeout"`

	// Address is the Vault server URL (vault only). Falls back to the
	// VAULT_ADDR environment variable when empty.
	Address string `yaml:"address,omitempty"`

	// Token is the Vault auth token (vault only). Falls back to the
	// VAULT_TOKEN environment variable when empty.
	Token string `yaml:"token,omitempty"`

	// Mount is the KV v2 mount point (vault only). Defaults to "secret".
	Mount string `yaml:"mount,omitempty"`

	// Field is the key inside the KV data map holding the secret value
	// (vault only). Defaults to "value".
	Field string `yaml:"field,omitempty"`

	// Region is the AWS region (awssm only). Falls back to the SDK's
	// default resolution chain when empty.
	Region string `yaml:"region,omitempty"`

	// Endpoint overrides the AWS endpoint, e.g. for LocalStack (awssm
	// only).
	Endpoint string `yaml:"endpoint,omitempty"`

	// Dir is the directory holding one file per secret (file only).
	Dir string `yaml:"dir,omitempty"`

	// Values seeds the in-memory backend (static only).
	Values map[string]string `yaml:"values,omitempty"`
}

// DefaultTimeout is applied when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// CallTimeout returns the configured per-call timeout, or DefaultTimeout.
func (c Config) CallTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
