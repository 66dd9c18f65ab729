package audit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLogger_RecordsEvent(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store)

	logger.Record(context.Background(), OpGet, "db.password", "vault", true, false, nil)

	events, err := store.Query(context.Background(), Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	event := events[0]
	if event.ID == "" {
		t.Error("expected event ID assigned")
	}
	if event.Operation != OpGet {
		t.Errorf("expected operation %q, got %q", OpGet, event.Operation)
	}
	if event.Key != "db.password" {
		t.Errorf("expected key recorded, got %q", event.Key)
	}
	if !event.Success || event.Stale {
		t.Errorf("unexpected flags: %+v", event)
	}
}

func TestLogger_RecordsFailureCause(t *testing.T) {
	store := NewMemoryStore()
	logger := NewLogger(store)

	logger.Record(context.Background(), OpRefresh, "api.token", "awssm", false, false,
		errors.New("backend unreachable"))

	events, _ := store.Query(context.Background(), Filter{})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Error != "backend unreachable" {
		t.Errorf("expected error message recorded, got %q", events[0].Error)
	}
}

func TestMemoryStore_QueryFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	base := time.Now()

	for i, key := range []string{"a", "b", "a", "c"} {
		store.Append(ctx, &Event{
			ID:        string(rune('0' + i)),
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Operation: OpGet,
			Key:       key,
		})
	}
	store.Append(ctx, &Event{
		ID:        "refresh-1",
		Timestamp: base.Add(10 * time.Second),
		Operation: OpRefresh,
		Key:       "a",
	})

	byKey, _ := store.Query(ctx, Filter{Key: "a"})
	if len(byKey) != 3 {
		t.Errorf("expected 3 events for key a, got %d", len(byKey))
	}

	byOp, _ := store.Query(ctx, Filter{Operation: OpRefresh})
	if len(byOp) != 1 {
		t.Errorf("expected 1 refresh event, got %d", len(byOp))
	}

	since, _ := store.Query(ctx, Filter{Since: base.Add(2 * time.Second)})
	if len(since) != 3 {
		t.Errorf("expected 3 events since t+2s, got %d", len(since))
	}

	limited, _ := store.Query(ctx, Filter{Limit: 2})
	if len(limited) != 2 {
		t.Errorf("expected 2 events with limit, got %d", len(limited))
	}
	// Newest first.
	if limited[0].ID != "refresh-1" {
		t.Errorf("expected newest event first, got %s", limited[0].ID)
	}
}

func TestMemoryStore_Prune(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	store.Append(ctx, &Event{ID: "old", Timestamp: now.Add(-48 * time.Hour)})
	store.Append(ctx, &Event{ID: "new", Timestamp: now})

	removed, err := store.Prune(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 pruned event, got %d", removed)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 remaining event, got %d", count)
	}
}

func TestPruner_RespectsRetentionWindow(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	store.Append(ctx, &Event{ID: "ancient", Timestamp: now.AddDate(0, 0, -100)})
	store.Append(ctx, &Event{ID: "recent", Timestamp: now})

	pruner := NewPruner(store, RetentionConfig{RetentionDays: 30})
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted event, got %d", deleted)
	}
}

func TestPruner_ZeroRetentionIsNoop(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	store.Append(ctx, &Event{ID: "old", Timestamp: time.Now().AddDate(-1, 0, 0)})

	pruner := NewPruner(store, RetentionConfig{})
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected no pruning, got %d", deleted)
	}
}

func TestPruner_StartWithoutSchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), RetentionConfig{RetentionDays: 30})

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if pruner.IsRunning() {
		t.Error("expected scheduler not running without a schedule")
	}
}

func TestPruner_StartAndStop(t *testing.T) {
	pruner := NewPruner(NewMemoryStore(), RetentionConfig{
		RetentionDays: 30,
		PruneSchedule: "0 3 * * *",
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !pruner.IsRunning() {
		t.Error("expected scheduler running")
	}

	pruner.Stop()
	if pruner.IsRunning() {
		t.Error("expected scheduler stopped")
	}

	// Stop is idempotent; cancel after stop is harmless.
	pruner.Stop()
	cancel()
}
