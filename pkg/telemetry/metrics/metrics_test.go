package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"mercator-hq/ganymede/pkg/config"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "ganymede",
		Subsystem: "secrets",
		Path:      "/metrics",
	}
}

func TestCollector_CacheCounters(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordHit()
	c.RecordHit()
	c.RecordMiss()
	c.RecordStaleServe()
	c.UpdateEntries(7)

	if got := testutil.ToFloat64(c.hitsTotal); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(c.missesTotal); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(c.staleServesTotal); got != 1 {
		t.Errorf("expected 1 stale serve, got %v", got)
	}
	if got := testutil.ToFloat64(c.entries); got != 7 {
		t.Errorf("expected 7 entries, got %v", got)
	}
}

func TestCollector_RefreshOutcomes(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordRefresh(OutcomeSuccess)
	c.RecordRefresh(OutcomeSuccess)
	c.RecordRefresh(OutcomeFailure)

	if got := testutil.ToFloat64(c.refreshTotal.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("expected 2 successful refreshes, got %v", got)
	}
	if got := testutil.ToFloat64(c.refreshTotal.WithLabelValues(OutcomeFailure)); got != 1 {
		t.Errorf("expected 1 failed refresh, got %v", got)
	}
}

func TestCollector_ProviderCalls(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordProviderCall("vault", OutcomeSuccess, 25*time.Millisecond)
	c.RecordProviderCall("vault", OutcomeFailure, 100*time.Millisecond)

	if got := testutil.ToFloat64(c.providerCallsTotal.WithLabelValues("vault", OutcomeSuccess)); got != 1 {
		t.Errorf("expected 1 successful call, got %v", got)
	}
	if got := testutil.ToFloat64(c.providerCallsTotal.WithLabelValues("vault", OutcomeFailure)); got != 1 {
		t.Errorf("expected 1 failed call, got %v", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())
	c.RecordHit()

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "ganymede_secrets_cache_hits_total") {
		t.Errorf("expected hit counter in exposition, got:\n%s", body)
	}
}

func TestNewCollector_NilRegistry(t *testing.T) {
	c := NewCollector(testConfig(), nil)
	if c.Registry() == nil {
		t.Error("expected a registry to be created")
	}
}
