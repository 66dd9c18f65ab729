package config

import "time"

// Default values applied to unset fields.
const (
	DefaultListenAddress   = "127.0.0.1:9465"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTTL             = 5 * time.Minute
	DefaultMetricsPath     = "/metrics"
	DefaultNamespace       = "ganymede"
	DefaultSubsystem       = "secrets"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultRetentionDays   = 90
)

// ApplyDefaults fills unset fields with their default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Agent.ListenAddress == "" {
		cfg.Agent.ListenAddress = DefaultListenAddress
	}
	if cfg.Agent.ShutdownTimeout <= 0 {
		cfg.Agent.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = DefaultTTL
	}
	if cfg.Cache.RefreshInterval <= 0 {
		cfg.Cache.RefreshInterval = cfg.Cache.TTL
	}

	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = DefaultRetentionDays
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultNamespace
	}
	if cfg.Metrics.Subsystem == "" {
		cfg.Metrics.Subsystem = DefaultSubsystem
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
}
