package static

import (
	"context"
	"errors"
	"testing"

	"mercator-hq/ganymede/pkg/providers"
	"mercator-hq/ganymede/pkg/secrets"
)

func TestProvider_Retrieve(t *testing.T) {
	p := New(providers.Config{
		Name:   "test",
		Values: map[string]string{"db.password": "s3cr3t"},
	})
	defer p.Close()

	value, err := p.Retrieve(context.Background(), "db.password")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if value != "s3cr3t" {
		t.Errorf("expected %q, got %q", "s3cr3t", value)
	}
}

func TestProvider_RetrieveMissing(t *testing.T) {
	p := New(providers.Config{Name: "test"})
	defer p.Close()

	_, err := p.Retrieve(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for missing key")
	}

	var provErr *secrets.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected cause ErrNotFound")
	}
	if provErr.Key != "nope" {
		t.Errorf("expected key in error, got %q", provErr.Key)
	}
}

func TestProvider_SetReplacesValue(t *testing.T) {
	p := New(providers.Config{Values: map[string]string{"token": "old"}})
	defer p.Close()

	p.Set("token", "new")

	value, err := p.Retrieve(context.Background(), "token")
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if value != "new" {
		t.Errorf("expected %q, got %q", "new", value)
	}
}

func TestProvider_ClosedRejectsCalls(t *testing.T) {
	p := New(providers.Config{Values: map[string]string{"k": "v"}})
	p.Close()

	if _, err := p.Retrieve(context.Background(), "k"); err == nil {
		t.Error("expected error after Close")
	}
	if err := p.HealthCheck(context.Background()); err == nil {
		t.Error("expected health check failure after Close")
	}
}

func TestProvider_CancelledContext(t *testing.T) {
	p := New(providers.Config{Values: map[string]string{"k": "v"}})
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Retrieve(ctx, "k"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
