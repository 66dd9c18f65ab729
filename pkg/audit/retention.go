package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls pruning of old audit events.
type RetentionConfig struct {
	// RetentionDays is how long events are kept. 0 disables pruning.
	RetentionDays int

	// PruneSchedule is a cron expression for scheduled pruning runs
	// (e.g., "0 3 * * *" for daily at 3 AM). Empty disables the
	// scheduler; Prune can still be invoked directly.
	PruneSchedule string
}

// Pruner enforces the retention policy on an audit Storage.
type Pruner struct {
	storage Storage
	config  RetentionConfig
	logger  *slog.Logger

	cron    *cron.Cron
	mu      sync.Mutex
	running bool
}

// NewPruner creates a retention pruner for the given storage.
func NewPruner(storage Storage, config RetentionConfig) *Pruner {
	return &Pruner{
		storage: storage,
		config:  config,
		cron:    cron.New(),
		logger:  slog.Default().With("component", "audit.retention"),
	}
}

// Prune deletes events older than the retention window. It returns the
// number of deleted events; with RetentionDays zero it is a no-op.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.storage.Prune(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}
	return deleted, nil
}

// Start schedules pruning runs according to PruneSchedule. It returns
// without starting anything when no schedule is configured. The scheduler
// stops when ctx is cancelled or Stop is called.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.PruneSchedule == "" {
		p.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}
	if p.running {
		return nil
	}

	if _, err := cron.ParseStandard(p.config.PruneSchedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.config.PruneSchedule, err)
	}

	if _, err := p.cron.AddFunc(p.config.PruneSchedule, func() {
		p.runPruning(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("retention scheduler started",
		"schedule", p.config.PruneSchedule,
		"retention_days", p.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// runPruning executes one scheduled pruning cycle.
func (p *Pruner) runPruning(ctx context.Context) {
	deleted, err := p.Prune(ctx)
	if err != nil {
		p.logger.Error("scheduled pruning failed", "error", err)
		return
	}

	if deleted > 0 {
		p.logger.Info("scheduled pruning completed", "deleted_count", deleted)
	} else {
		p.logger.Debug("scheduled pruning completed, no events deleted")
	}
}

// Stop stops the scheduler and waits for a running job to complete.
// Idempotent.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		<-p.cron.Stop().Done()
		p.running = false
		p.logger.Info("retention scheduler stopped")
	}
}

// IsRunning reports whether the scheduler is active.
func (p *Pruner) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
