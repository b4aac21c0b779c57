package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jpalmerr/fleetpulse/config"
)

// newValidateCmd validates a config file without polling.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a config file",
		Long: `Validate a fleetpulse configuration file without polling any node.

This command parses the YAML, expands environment variables, validates
all fields and reads the node list. It's useful for CI/CD pipelines or
pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  fleetpulse validate -c config.yaml`,
		RunE: runValidate,
	}

	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	nodes, err := cfg.AllNodes()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	delivery := "disabled"
	if cfg.Telegram.Enabled() {
		delivery = "enabled"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Nodes:           %d (%d from file + %d inline)\n",
		len(nodes), len(nodes)-len(cfg.Nodes), len(cfg.Nodes))
	fmt.Fprintf(out, "  Routes:          %s\n", strings.Join(cfg.Routes, ", "))
	fmt.Fprintf(out, "  Max concurrent:  %d\n", cfg.MaxConcurrent)
	fmt.Fprintf(out, "  Request timeout: %s\n", cfg.RequestTimeout.Duration())
	fmt.Fprintf(out, "  Telegram:        %s\n", delivery)

	return nil
}
