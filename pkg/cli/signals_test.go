package cli

import "testing"

func TestSetupSignalHandler(t *testing.T) {
	ctx := SetupSignalHandler()
	if ctx == nil {
		t.Fatal("expected non-nil context")
	}
	select {
	case <-ctx.Done():
		t.Error("context canceled without a signal")
	default:
	}
}
