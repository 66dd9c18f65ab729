// Package config defines the YAML configuration surface of the ganymede
// agent and the loading, defaulting, and validation logic around it.
package config

import (
	"time"

	"mercator-hq/ganymede/pkg/providers"
)

// Config is the root configuration structure.
type Config struct {
	// Agent configures the agent process itself.
	Agent AgentConfig `yaml:"agent"`

	// Provider selects and configures the secret backend.
	Provider providers.Config `yaml:"provider"`

	// Cache configures the TTL cache and background refresh.
	Cache CacheConfig `yaml:"cache"`

	// Audit configures the access audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Metrics configures the Prometheus exposition endpoint.
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// AgentConfig contains process-level settings.
type AgentConfig struct {
	// ListenAddress is the HTTP listen address for /metrics and /healthz.
	ListenAddress string `yaml:"listen_address"`

	// Keys is the static list of secret keys the agent declares up front.
	// Declared keys are fetched at startup so the cache starts warm; this
	// list is the configuration-time replacement for runtime field
	// inspection.
	Keys []string `yaml:"keys"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// CacheConfig contains cache policy settings.
type CacheConfig struct {
	// TTL is how long a cached secret stays fresh.
	TTL time.Duration `yaml:"ttl"`

	// RefreshInterval is the period of the background refresh loop.
	// Zero means refresh at the TTL period.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// AuditConfig contains audit trail settings.
type AuditConfig struct {
	// Enabled turns the audit trail on.
	Enabled bool `yaml:"enabled"`

	// DBPath is the SQLite database file for audit events. Empty means
	// in-memory only (events are lost on restart).
	DBPath string `yaml:"db_path"`

	// RetentionDays is how long audit events are kept. 0 keeps them
	// forever.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for retention pruning runs
	// (e.g., "0 3 * * *" for daily at 3 AM). Empty disables scheduled
	// pruning.
	PruneSchedule string `yaml:"prune_schedule"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled turns the metrics endpoint on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix (first segment).
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name prefix (second segment).
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path of the exposition endpoint.
	Path string `yaml:"path"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	Format string `yaml:"format"`
}
