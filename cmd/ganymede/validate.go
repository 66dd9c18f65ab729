package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a ganymede configuration file without starting the agent.

The command checks:
  - YAML syntax
  - Provider type and its required settings
  - Cache TTL and refresh interval
  - Audit retention schedule (cron syntax)
  - Log level and format

Examples:
  # Validate the default config file
  ganymede validate

  # Validate a specific file
  ganymede validate --config /etc/ganymede/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}

	fmt.Printf("✓ %s is valid\n", cfgFile)
	fmt.Printf("  Provider: %s (%s)\n", cfg.Provider.Name, cfg.Provider.Type)
	fmt.Printf("  Cache TTL: %s, refresh every %s\n", cfg.Cache.TTL, cfg.Cache.RefreshInterval)
	fmt.Printf("  Declared keys: %d\n", len(cfg.Agent.Keys))
	if cfg.Audit.Enabled {
		backend := "memory"
		if cfg.Audit.DBPath != "" {
			backend = cfg.Audit.DBPath
		}
		fmt.Printf("  Audit: enabled (%s)\n", backend)
	}
	return nil
}
