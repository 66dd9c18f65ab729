package secrets

import (
	"errors"
	"strings"
	"testing"
)

func TestProviderError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ProviderError{Provider: "vault", Key: "db.password", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "vault") || !strings.Contains(err.Error(), "db.password") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestFetchError_WrapsProviderError(t *testing.T) {
	cause := errors.New("denied")
	provErr := &ProviderError{Provider: "awssm", Key: "api.key", Cause: cause}
	err := &FetchError{Key: "api.key", Cause: provErr}

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatal("expected errors.As to unwrap ProviderError")
	}
	if pe.Provider != "awssm" {
		t.Errorf("expected provider awssm, got %q", pe.Provider)
	}
	if !errors.Is(err, cause) {
		t.Error("expected chain to reach the root cause")
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Field: "provider", Message: "must be set"}
	if !strings.Contains(err.Error(), "provider") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestShutdownError_Message(t *testing.T) {
	err := &ShutdownError{Op: "get"}
	if !strings.Contains(err.Error(), "get") {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
