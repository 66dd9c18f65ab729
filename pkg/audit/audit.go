// Package audit records secret access events: foreground fetches,
// background refreshes, and stale fallbacks. Events can be kept in memory
// or persisted to SQLite, and old events are pruned on a cron schedule.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Operations recorded in audit events.
const (
	OpGet     = "get"
	OpRefresh = "refresh"
	OpWarmup  = "warmup"
)

// Event is a single audit record for one secret access.
type Event struct {
	// ID is a UUID v4 assigned at record time.
	ID string `json:"id"`

	// Timestamp is when the access happened.
	Timestamp time.Time `json:"timestamp"`

	// Operation is one of OpGet, OpRefresh, OpWarmup.
	Operation string `json:"operation"`

	// Key is the secret key that was accessed.
	Key string `json:"key"`

	// Provider is the provider instance name involved, if any.
	Provider string `json:"provider"`

	// Success reports whether the caller received a value.
	Success bool `json:"success"`

	// Stale reports whether the value served was an expired fallback.
	Stale bool `json:"stale"`

	// Error holds the failure message when Success is false or when a
	// stale value masked a provider failure.
	Error string `json:"error,omitempty"`
}

// Filter narrows a storage query. Zero fields match everything.
type Filter struct {
	// Key restricts results to one secret key.
	Key string

	// Operation restricts results to one operation.
	Operation string

	// Since restricts results to events at or after this time.
	Since time.Time

	// Limit caps the number of returned events. 0 means no cap.
	Limit int
}

// Storage persists audit events. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Append stores one event.
	Append(ctx context.Context, event *Event) error

	// Query returns events matching the filter, newest first.
	Query(ctx context.Context, filter Filter) ([]*Event, error)

	// Prune deletes events older than the given time and returns how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int64, error)

	// Count returns the number of stored events.
	Count(ctx context.Context) (int64, error)

	// Close releases storage resources.
	Close() error
}

// Recorder is the write-side interface the cache client depends on.
type Recorder interface {
	Record(ctx context.Context, op, key, provider string, success, stale bool, cause error)
}

// Logger is the standard Recorder: it assigns IDs, appends to a Storage,
// and never lets audit failures disturb the access path (append errors are
// logged and dropped).
type Logger struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// NewLogger creates a Logger writing to the given storage.
func NewLogger(storage Storage) *Logger {
	return &Logger{
		storage: storage,
		logger:  slog.Default().With("component", "audit"),
		now:     time.Now,
	}
}

// Record stores one access event.
func (l *Logger) Record(ctx context.Context, op, key, provider string, success, stale bool, cause error) {
	event := &Event{
		ID:        uuid.NewString(),
		Timestamp: l.now(),
		Operation: op,
		Key:       key,
		Provider:  provider,
		Success:   success,
		Stale:     stale,
	}
	if cause != nil {
		event.Error = cause.Error()
	}

	if err := l.storage.Append(ctx, event); err != nil {
		l.logger.Warn("failed to append audit event",
			"operation", op,
			"key", key,
			"error", err,
		)
	}
}
