package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestValidateConfig(t *testing.T) {
	origCfgFile := cfgFile
	defer func() { cfgFile = origCfgFile }()

	cfgFile = writeTestConfig(t, `
provider:
  name: local
  type: static
  values:
    db.password: hunter2
cache:
  ttl: "1m"
`)

	if err := validateConfig(validateCmd, nil); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	origCfgFile := cfgFile
	defer func() { cfgFile = origCfgFile }()

	cfgFile = writeTestConfig(t, `
provider:
  name: local
  type: no-such-backend
`)

	if err := validateConfig(validateCmd, nil); err == nil {
		t.Error("expected error for unknown provider type")
	}
}
