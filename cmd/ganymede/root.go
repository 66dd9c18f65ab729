package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Ganymede - secret-caching agent",
	Long: `Ganymede is a secret-caching agent that sits between an application and
its secret backend.

It provides:
  - Pluggable secret backends (Vault, AWS Secrets Manager, file, static)
  - TTL caching with background refresh
  - Single-flight fetching under concurrent load
  - Stale-serve fallback when the backend is unavailable
  - An audit trail of secret access`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
