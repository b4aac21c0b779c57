// Package main is the entry point for the fleetpulse CLI.
//
// fleetpulse can be used either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	fleetpulse poll -c config.yaml      # Poll the fleet and print totals
//	fleetpulse report -c config.yaml    # Poll, render the card and send it
//	fleetpulse validate -c config.yaml  # Validate configuration
//	fleetpulse version                  # Show version info
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fleetpulse",
		Short: "Poll a fleet of storage nodes and report fleet-wide totals",
		Long: `fleetpulse polls the dashboard API of every storage node in a fleet,
merges the answers of the nodes that responded on every route, and
reports fleet-wide disk usage, earnings and bandwidth.

Quick start:
  1. List your nodes in nodes.txt, one host:port per line
  2. Create a config file (fleetpulse.yaml) pointing at it
  3. Run: fleetpulse poll -c fleetpulse.yaml

Example config:
  nodes_file: nodes.txt
  max_concurrent: 20
  request_timeout: 10s`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newPollCmd(),
		newReportCmd(),
		newValidateCmd(),
		newVersionCmd(),
	)
	return root
}

// newVersionCmd prints version information.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of this fleetpulse binary.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fleetpulse %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

// newLogger creates a JSON logger for CLI use.
func newLogger(cmd *cobra.Command, w io.Writer) (*slog.Logger, error) {
	levelName, _ := cmd.Flags().GetString("log-level")

	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}
