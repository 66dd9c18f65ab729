package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and then
// applies environment variable overrides. Variables follow the naming
// convention GANYMEDE_SECTION_FIELD (e.g., GANYMEDE_CACHE_TTL) and always
// take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies GANYMEDE_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("GANYMEDE_AGENT_LISTEN_ADDRESS"); val != "" {
		cfg.Agent.ListenAddress = val
	}

	if val := os.Getenv("GANYMEDE_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.TTL = d
		}
	}
	if val := os.Getenv("GANYMEDE_CACHE_REFRESH_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Cache.RefreshInterval = d
		}
	}

	if val := os.Getenv("GANYMEDE_PROVIDER_ADDRESS"); val != "" {
		cfg.Provider.Address = val
	}
	if val := os.Getenv("GANYMEDE_PROVIDER_TOKEN"); val != "" {
		cfg.Provider.Token = val
	}
	if val := os.Getenv("GANYMEDE_PROVIDER_REGION"); val != "" {
		cfg.Provider.Region = val
	}

	if val := os.Getenv("GANYMEDE_AUDIT_DB_PATH"); val != "" {
		cfg.Audit.DBPath = val
	}

	if val := os.Getenv("GANYMEDE_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("GANYMEDE_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}
}
