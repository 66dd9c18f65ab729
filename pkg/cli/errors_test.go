package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestCommandError(t *testing.T) {
	cause := errors.New("boom")
	err := NewCommandError("run", cause)

	if !strings.Contains(err.Error(), "run") || !strings.Contains(err.Error(), "boom") {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}
