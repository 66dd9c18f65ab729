package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
)

var auditQueryFlags struct {
	key       string
	operation string
	since     time.Duration
	limit     int
	format    string
}

var auditPruneFlags struct {
	olderThanDays int
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect the secret access audit trail",
	Long: `Inspect the audit trail recorded by the ganymede agent.

The audit trail records every secret access: cache hits, fetches, stale
serves, background refreshes, and warm-up fetches. These commands read the
SQLite database configured under audit.db_path.`,
}

var auditQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query audit events",
	Long: `Query audit events, newest first.

Examples:
  # Last 10 events for a key
  ganymede audit query --key db.password --limit 10

  # Refresh failures in the last hour, as JSON
  ganymede audit query --op refresh --since 1h --format json`,
	RunE: queryAuditEvents,
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old audit events",
	Long: `Delete audit events older than the given number of days.

Without --older-than, the configured audit.retention_days is used.`,
	RunE: pruneAuditEvents,
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditQueryCmd)
	auditCmd.AddCommand(auditPruneCmd)

	auditQueryCmd.Flags().StringVar(&auditQueryFlags.key, "key", "", "filter by secret key")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.operation, "op", "", "filter by operation: get, refresh, warmup")
	auditQueryCmd.Flags().DurationVar(&auditQueryFlags.since, "since", 0, "only events newer than this age (e.g. 1h)")
	auditQueryCmd.Flags().IntVar(&auditQueryFlags.limit, "limit", 100, "maximum number of events")
	auditQueryCmd.Flags().StringVar(&auditQueryFlags.format, "format", "text", "output format: text, json, csv")

	auditPruneCmd.Flags().IntVar(&auditPruneFlags.olderThanDays, "older-than", 0, "delete events older than this many days")
}

// openAuditStore opens the configured audit database.
func openAuditStore() (audit.Storage, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Audit.DBPath == "" {
		return nil, fmt.Errorf("no audit database configured (set audit.db_path)")
	}
	return audit.NewSQLiteStore(cfg.Audit.DBPath)
}

// eventTable adapts audit events to tabular CSV output.
type eventTable []*audit.Event

func (eventTable) Headers() []string {
	return []string{"timestamp", "operation", "key", "provider", "success", "stale", "error"}
}

func (t eventTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, e := range t {
		rows = append(rows, []string{
			e.Timestamp.Format(time.RFC3339),
			e.Operation,
			e.Key,
			e.Provider,
			strconv.FormatBool(e.Success),
			strconv.FormatBool(e.Stale),
			e.Error,
		})
	}
	return rows
}

func queryAuditEvents(cmd *cobra.Command, args []string) error {
	store, err := openAuditStore()
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}
	defer store.Close()

	filter := audit.Filter{
		Key:       auditQueryFlags.key,
		Operation: auditQueryFlags.operation,
		Limit:     auditQueryFlags.limit,
	}
	if auditQueryFlags.since > 0 {
		filter.Since = time.Now().Add(-auditQueryFlags.since)
	}

	events, err := store.Query(context.Background(), filter)
	if err != nil {
		return cli.NewCommandError("audit query", err)
	}

	switch cli.OutputFormat(auditQueryFlags.format) {
	case cli.FormatJSON:
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, events)
	case cli.FormatCSV:
		return cli.NewFormatter(cli.FormatCSV).FormatTo(os.Stdout, eventTable(events))
	default:
		if len(events) == 0 {
			fmt.Println("No audit events found.")
			return nil
		}
		for _, e := range events {
			status := "ok"
			if !e.Success {
				status = "failed"
			} else if e.Stale {
				status = "stale"
			}
			fmt.Printf("%s  %-8s %-30s %-10s %s", e.Timestamp.Format(time.RFC3339), e.Operation, e.Key, e.Provider, status)
			if e.Error != "" {
				fmt.Printf("  (%s)", e.Error)
			}
			fmt.Println()
		}
		fmt.Printf("\n%d events\n", len(events))
		return nil
	}
}

func pruneAuditEvents(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewCommandError("audit prune", fmt.Errorf("failed to load config: %w", err))
	}
	if cfg.Audit.DBPath == "" {
		return cli.NewCommandError("audit prune", fmt.Errorf("no audit database configured (set audit.db_path)"))
	}

	days := auditPruneFlags.olderThanDays
	if days <= 0 {
		days = cfg.Audit.RetentionDays
	}
	if days <= 0 {
		return cli.NewCommandError("audit prune", fmt.Errorf("no retention period (set --older-than or audit.retention_days)"))
	}

	store, err := audit.NewSQLiteStore(cfg.Audit.DBPath)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}
	defer store.Close()

	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := store.Prune(context.Background(), cutoff)
	if err != nil {
		return cli.NewCommandError("audit prune", err)
	}

	fmt.Printf("✓ Deleted %d events older than %d days\n", deleted, days)
	return nil
}
