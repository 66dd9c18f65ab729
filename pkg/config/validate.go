package config

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"mercator-hq/ganymede/pkg/providers"
)

// Validate checks the configuration for inconsistencies. It assumes
// ApplyDefaults already ran.
func Validate(cfg *Config) error {
	switch cfg.Provider.Type {
	case providers.TypeVault, providers.TypeAWSSM, providers.TypeStatic:
	case providers.TypeFile:
		if cfg.Provider.Dir == "" {
			return fmt.Errorf("provider.dir is required for the file provider")
		}
	case "":
		return fmt.Errorf("provider.type is required")
	default:
		return fmt.Errorf("unknown provider.type %q", cfg.Provider.Type)
	}

	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.RefreshInterval <= 0 {
		return fmt.Errorf("cache.refresh_interval must be positive, got %v", cfg.Cache.RefreshInterval)
	}

	if cfg.Audit.RetentionDays < 0 {
		return fmt.Errorf("audit.retention_days must not be negative, got %d", cfg.Audit.RetentionDays)
	}
	if cfg.Audit.PruneSchedule != "" {
		if _, err := cron.ParseStandard(cfg.Audit.PruneSchedule); err != nil {
			return fmt.Errorf("invalid audit.prune_schedule %q: %w", cfg.Audit.PruneSchedule, err)
		}
	}

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown logging.format %q", cfg.Logging.Format)
	}

	for _, key := range cfg.Agent.Keys {
		if key == "" {
			return fmt.Errorf("agent.keys must not contain empty keys")
		}
	}

	return nil
}
