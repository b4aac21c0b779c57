package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/fleetpulse"
	"github.com/jpalmerr/fleetpulse/config"
	"github.com/jpalmerr/fleetpulse/internal/render"
)

// newPollCmd polls the fleet once and prints the totals.
func newPollCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll every node once and print fleet totals",
		Long: `Poll every configured node once and print fleet-wide totals.

A node counts only if it answered every configured route; the others are
listed as failed and contribute nothing to the totals.

Example:
  fleetpulse poll -c config.yaml
  fleetpulse poll -c config.yaml -o report.json`,
		RunE: runPoll,
	}

	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	cmd.Flags().StringP("output", "o", "", "write the report and stats as JSON to this file")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runPoll(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts, err := config.BuildOptions(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to load nodes: %w", err)
	}
	fp, err := fleetpulse.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create fleetpulse: %w", err)
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	res, err := fp.Poll(ctx)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), res, fp.Routes())

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		if err := writeJSON(out, res); err != nil {
			return err
		}
		logger.Info("report written", "path", out)
	}
	return nil
}

// writeJSON writes res to path, indented.
func writeJSON(path string, res *fleetpulse.Result) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// printSummary renders the poll result for a terminal.
// Colours are dropped when w is not a terminal.
func printSummary(w io.Writer, res *fleetpulse.Result, routes []string) {
	r := lipgloss.NewRenderer(w)
	var (
		title = r.NewStyle().Bold(true)
		good  = r.NewStyle().Foreground(lipgloss.Color("#22c55e"))
		bad   = r.NewStyle().Foreground(lipgloss.Color("#ef4444"))
		dim   = r.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	)

	s := res.Stats
	counts := fmt.Sprintf("%d/%d nodes answered every route", s.Success, s.Total)
	if s.Success == s.Total {
		counts = good.Render(counts)
	} else {
		counts = bad.Render(counts)
	}

	fmt.Fprintln(w, title.Render("Fleet poll")+dim.Render(" in "+res.Duration.Round(time.Millisecond).String()))
	fmt.Fprintln(w, "  "+counts)

	if len(s.FailedNodes) > 0 {
		fmt.Fprintln(w, "  "+bad.Render("failed:"))
		for _, node := range s.FailedNodes {
			fmt.Fprintln(w, "    "+node)
		}
	}

	if len(routes) > 0 && s.Total > 0 {
		t := table.New().
			Headers("ROUTE", "ANSWERED").
			Border(lipgloss.NormalBorder()).
			BorderStyle(dim)
		for _, route := range routes {
			t = t.Row(route, strconv.Itoa(s.ByRoute[route])+"/"+strconv.Itoa(s.Total))
		}
		fmt.Fprintln(w, t.Render())
	}

	for _, line := range totals(res) {
		fmt.Fprintln(w, "  "+line)
	}
	for _, route := range res.Gaps() {
		fmt.Fprintln(w, "  "+bad.Render("no data: "+route))
	}
}

// totals returns one line per aggregated route.
func totals(res *fleetpulse.Result) []string {
	var lines []string

	if sno, ok := res.Report.SNO(); ok {
		used, usedUnit := render.FormatStorage(render.BytesToGB(sno.DiskSpace.Used.Float64()))
		trash, trashUnit := render.FormatStorage(render.BytesToGB(sno.DiskSpace.Trash.Float64()))
		lines = append(lines, fmt.Sprintf("disk used:  %s %s (trash %s %s)", used, usedUnit, trash, trashUnit))
	}
	if p, ok := res.Report.EstimatedPayout(); ok {
		lines = append(lines, fmt.Sprintf("earnings:   $%.2f paid, $%.2f held, $%.2f expected",
			render.CentsToDollars(p.CurrentMonth.Payout.Float64()),
			render.CentsToDollars(p.CurrentMonth.Held.Float64()),
			render.CentsToDollars(p.CurrentMonthExpectations.Float64()),
		))
	}
	if sat, ok := res.Report.Satellites(); ok {
		in, inUnit := render.FormatStorage(render.BytesToGB(sat.IngressSummary.Float64()))
		out, outUnit := render.FormatStorage(render.BytesToGB(sat.EgressSummary.Float64()))
		lines = append(lines, fmt.Sprintf("bandwidth:  %s %s in, %s %s out", in, inUnit, out, outUnit))
	}
	return lines
}

// signalContext derives a context cancelled on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}
