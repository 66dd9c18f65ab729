package audit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore persists audit events to a SQLite database. It is suitable
// for single-instance deployments where the audit trail must survive
// restarts.
//
// The store opens the database in WAL mode with a single writer connection,
// which is the concurrency model SQLite supports.
type SQLiteStore struct {
	db *sql.DB

	appendStmt *sql.Stmt
	pruneStmt  *sql.Stmt
	countStmt  *sql.Stmt
}

// NewSQLiteStore opens (or creates) the audit database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize audit schema: %w", err)
	}
	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare audit statements: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_events (
		id TEXT PRIMARY KEY,
		timestamp INTEGER NOT NULL,
		operation TEXT NOT NULL,
		key TEXT NOT NULL,
		provider TEXT NOT NULL,
		success INTEGER NOT NULL,
		stale INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_audit_events_timestamp ON audit_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_events_key ON audit_events(key);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.appendStmt, err = s.db.Prepare(`
		INSERT INTO audit_events (id, timestamp, operation, key, provider, success, stale, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	s.pruneStmt, err = s.db.Prepare(`DELETE FROM audit_events WHERE timestamp < ?`)
	if err != nil {
		return err
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM audit_events`)
	return err
}

// Append stores one event.
func (s *SQLiteStore) Append(ctx context.Context, event *Event) error {
	_, err := s.appendStmt.ExecContext(ctx,
		event.ID,
		event.Timestamp.UnixNano(),
		event.Operation,
		event.Key,
		event.Provider,
		boolToInt(event.Success),
		boolToInt(event.Stale),
		event.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit event: %w", err)
	}
	return nil
}

// Query returns matching events, newest first.
func (s *SQLiteStore) Query(ctx context.Context, filter Filter) ([]*Event, error) {
	query := `SELECT id, timestamp, operation, key, provider, success, stale, error
		FROM audit_events`

	var conditions []string
	var args []any
	if filter.Key != "" {
		conditions = append(conditions, "key = ?")
		args = append(args, filter.Key)
	}
	if filter.Operation != "" {
		conditions = append(conditions, "operation = ?")
		args = append(args, filter.Operation)
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, filter.Since.UnixNano())
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var event Event
		var ts int64
		var success, stale int
		if err := rows.Scan(&event.ID, &ts, &event.Operation, &event.Key,
			&event.Provider, &success, &stale, &event.Error); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		event.Timestamp = time.Unix(0, ts)
		event.Success = success != 0
		event.Stale = stale != 0
		events = append(events, &event)
	}
	return events, rows.Err()
}

// Prune deletes events older than the given time.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := s.pruneStmt.ExecContext(ctx, olderThan.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit events: %w", err)
	}
	return result.RowsAffected()
}

// Count returns the number of stored events.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count audit events: %w", err)
	}
	return count, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
