package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/providerfactory"
)

var getFlags struct {
	timeout time.Duration
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Fetch a single secret",
	Long: `Fetch a single secret from the configured backend and print its value.

The value is fetched directly from the provider, bypassing the cache. The
trailing newline is added by the command; the value itself is printed as-is.

Examples:
  # Fetch a secret using the default config
  ganymede get db.password

  # Fetch with a shorter timeout
  ganymede get db.password --timeout 5s`,
	Args: cobra.ExactArgs(1),
	RunE: getSecret,
}

func init() {
	rootCmd.AddCommand(getCmd)

	getCmd.Flags().DurationVar(&getFlags.timeout, "timeout", 30*time.Second, "fetch timeout")
}

func getSecret(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewCommandError("get", fmt.Errorf("failed to load config: %w", err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), getFlags.timeout)
	defer cancel()

	provider, err := providerfactory.New(ctx, cfg.Provider)
	if err != nil {
		return cli.NewCommandError("get", fmt.Errorf("failed to create provider: %w", err))
	}
	defer provider.Close()

	value, err := provider.Retrieve(ctx, args[0])
	if err != nil {
		return cli.NewCommandError("get", err)
	}

	fmt.Println(value)
	return nil
}
