package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/ganymede/pkg/providers"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
agent:
  listen_address: "127.0.0.1:9999"
  keys:
    - db.password
    - api.token
provider:
  name: vault-prod
  type: vault
  address: "https://vault.example.com:8200"
  mount: kv
cache:
  ttl: "30s"
  refresh_interval: "10s"
audit:
  enabled: true
  db_path: "./audit.db"
  prune_schedule: "0 3 * * *"
logging:
  level: debug
  format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Agent.ListenAddress != "127.0.0.1:9999" {
		t.Errorf("unexpected listen address: %s", cfg.Agent.ListenAddress)
	}
	if len(cfg.Agent.Keys) != 2 || cfg.Agent.Keys[0] != "db.password" {
		t.Errorf("unexpected keys: %v", cfg.Agent.Keys)
	}
	if cfg.Provider.Type != providers.TypeVault {
		t.Errorf("unexpected provider type: %s", cfg.Provider.Type)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("expected ttl 30s, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.RefreshInterval != 10*time.Second {
		t.Errorf("expected refresh interval 10s, got %v", cfg.Cache.RefreshInterval)
	}
	if !cfg.Audit.Enabled {
		t.Error("expected audit enabled")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: static
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Cache.TTL != DefaultTTL {
		t.Errorf("expected default ttl, got %v", cfg.Cache.TTL)
	}
	if cfg.Cache.RefreshInterval != DefaultTTL {
		t.Errorf("expected refresh interval to default to ttl, got %v", cfg.Cache.RefreshInterval)
	}
	if cfg.Agent.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %s", cfg.Agent.ListenAddress)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("expected default namespace, got %s", cfg.Metrics.Namespace)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("expected default log level, got %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "provider: [this is: not valid\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadConfig_MissingProviderType(t *testing.T) {
	path := writeConfig(t, "cache:\n  ttl: \"5m\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for missing provider type")
	}
}

func TestLoadConfig_InvalidPruneSchedule(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: static
audit:
  prune_schedule: "not a cron line at all ever"
`)
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected validation error for bad cron expression")
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: static
cache:
  ttl: "1m"
`)

	t.Setenv("GANYMEDE_CACHE_TTL", "2m")
	t.Setenv("GANYMEDE_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides failed: %v", err)
	}

	if cfg.Cache.TTL != 2*time.Minute {
		t.Errorf("expected env override ttl 2m, got %v", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env override level warn, got %s", cfg.Logging.Level)
	}
}

func TestValidate_FileProviderNeedsDir(t *testing.T) {
	cfg := &Config{}
	cfg.Provider.Type = providers.TypeFile
	ApplyDefaults(cfg)

	if err := Validate(cfg); err == nil {
		t.Error("expected error for file provider without dir")
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, `
provider:
  type: static
logging:
  level: info
`)

	reloaded := make(chan *Config, 1)
	w, err := Watch(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	defer w.Close()

	updated := `
provider:
  type: static
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(updated), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected reloaded level debug, got %s", cfg.Logging.Level)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
