package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"mercator-hq/ganymede/pkg/audit"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/client"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/providerfactory"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the ganymede agent",
	Long: `Start the ganymede agent with the specified configuration.

The agent connects to the configured secret backend, warms the cache with
the declared keys, refreshes them in the background, and serves /metrics
and /healthz on the configured listen address.

Examples:
  # Start with default config
  ganymede run

  # Start with custom config
  ganymede run --config /etc/ganymede/config.yaml

  # Override listen address
  ganymede run --listen 0.0.0.0:9465

  # Validate config without starting the agent
  ganymede run --dry-run`,
	RunE: runAgent,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the agent")
}

func runAgent(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to load config: %w", err))
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Agent.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}

	levelVar := setupLogging(&cfg.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Ganymede %s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx := context.Background()

	// Secret provider
	provider, err := providerfactory.NewVerified(ctx, cfg.Provider)
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to create provider: %w", err))
	}
	defer provider.Close()
	fmt.Printf("✓ Provider initialized (%s)\n", provider.Name())

	// Metrics
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Metrics, prometheus.NewRegistry())
	}

	// Audit trail
	var recorder audit.Recorder
	var pruner *audit.Pruner
	if cfg.Audit.Enabled {
		var storage audit.Storage
		if cfg.Audit.DBPath != "" {
			storage, err = audit.NewSQLiteStore(cfg.Audit.DBPath)
			if err != nil {
				return cli.NewCommandError("run", fmt.Errorf("failed to open audit store: %w", err))
			}
		} else {
			storage = audit.NewMemoryStore()
		}
		defer storage.Close()
		recorder = audit.NewLogger(storage)

		if cfg.Audit.PruneSchedule != "" {
			pruner = audit.NewPruner(storage, audit.RetentionConfig{
				RetentionDays: cfg.Audit.RetentionDays,
				PruneSchedule: cfg.Audit.PruneSchedule,
			})
			if err := pruner.Start(ctx); err != nil {
				slog.Warn("failed to start audit retention scheduler", "error", err)
			} else {
				defer pruner.Stop()
			}
		}
		fmt.Println("✓ Audit trail initialized")
	}

	// Secrets client
	builder := client.NewBuilder().
		WithProvider(provider).
		WithTTL(cfg.Cache.TTL).
		WithRefreshInterval(cfg.Cache.RefreshInterval)
	if collector != nil {
		builder = builder.WithMetrics(collector)
	}
	if recorder != nil {
		builder = builder.WithAudit(recorder)
	}
	secretsClient, err := builder.Build()
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to build secrets client: %w", err))
	}
	defer secretsClient.Shutdown()

	// Warm the cache with the declared keys. A partial failure is not fatal:
	// failed keys are fetched on first Get instead.
	if len(cfg.Agent.Keys) > 0 {
		warmCtx, warmCancel := context.WithTimeout(ctx, 30*time.Second)
		if err := secretsClient.Warm(warmCtx, cfg.Agent.Keys); err != nil {
			slog.Warn("cache warm-up incomplete", "error", err)
		}
		warmCancel()
		fmt.Printf("✓ Cache warmed (%d/%d keys)\n", secretsClient.Len(), len(cfg.Agent.Keys))
	}

	// HTTP server for metrics and health
	mux := http.NewServeMux()
	if collector != nil {
		mux.Handle(cfg.Metrics.Path, collector.Handler())
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := provider.HealthCheck(checkCtx); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	srv := &http.Server{
		Addr:              cfg.Agent.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting HTTP server", "address", cfg.Agent.ListenAddress)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	// Hot-reload the log level when the config file changes. Other settings
	// require a restart.
	watcher, err := config.Watch(cfgFile, func(updated *config.Config) {
		levelVar.Set(parseLogLevel(updated.Logging.Level))
		slog.Info("log level updated", "level", updated.Logging.Level)
	})
	if err != nil {
		slog.Warn("config watcher unavailable", "error", err)
	} else {
		defer watcher.Close()
	}

	fmt.Println()
	fmt.Printf("✓ Agent listening on %s\n", cfg.Agent.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Agent.ListenAddress, cfg.Metrics.Path)
	}
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Agent.ListenAddress)
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Agent.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Agent stopped")
		return nil
	}
}

// setupLogging installs the default slog logger per the logging config and
// returns the level var so the config watcher can adjust it at runtime.
func setupLogging(cfg *config.LoggingConfig) *slog.LevelVar {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLogLevel(cfg.Level))

	opts := &slog.HandlerOptions{Level: levelVar}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	return levelVar
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
