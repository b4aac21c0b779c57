package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jpalmerr/fleetpulse"
	"github.com/jpalmerr/fleetpulse/config"
	"github.com/jpalmerr/fleetpulse/internal/render"
	"github.com/jpalmerr/fleetpulse/internal/telegram"
)

// newReportCmd polls the fleet, renders the report card and delivers it.
func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Poll the fleet and send the report card to Telegram",
		Long: `Poll every configured node, render the SVG report card, convert it to
PNG and send it to the configured Telegram chat.

Every one of the three dashboard routes must be polled, and at least one
node must answer all of them. Nodes that did not answer are listed in the
photo caption.

The SVG and PNG are written to a temporary directory under random names
and removed afterwards unless --keep is given.

Example:
  fleetpulse report -c config.yaml
  fleetpulse report -c config.yaml --keep --out-dir ./out`,
		RunE: runReport,
	}

	cmd.Flags().StringP("config", "c", "", "path to config file (required)")
	cmd.Flags().Bool("keep", false, "keep the generated SVG and PNG files")
	cmd.Flags().String("out-dir", "", "directory for generated files (default: system temp dir)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Template == "" {
		return errors.New("config: template is required for report")
	}

	// fail before polling if delivery cannot work
	sender, err := telegram.New(cfg.Telegram.APIURL, cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		return err
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
	logger.Info("poll complete",
		"success", res.Stats.Success,
		"total", res.Stats.Total,
		"duration_ms", res.Duration.Milliseconds(),
	)
	if res.Stats.Success == 0 {
		return fmt.Errorf("no node answered every route (%d polled)", res.Stats.Total)
	}

	values, err := render.CardValues(res.Report, render.Header{
		Success: res.Stats.Success,
		Total:   res.Stats.Total,
	}, time.Now())
	if err != nil {
		return err
	}

	outDir, _ := cmd.Flags().GetString("out-dir")
	if outDir == "" {
		outDir = os.TempDir()
	}
	id := uuid.NewString()
	svgPath := filepath.Join(outDir, id+".svg")
	pngPath := filepath.Join(outDir, id+".png")

	keep, _ := cmd.Flags().GetBool("keep")
	if !keep {
		defer removeFiles(logger, svgPath, pngPath)
	}

	unresolved, err := render.RenderFile(cfg.Template, svgPath, values)
	if err != nil {
		return err
	}
	if len(unresolved) > 0 {
		logger.Warn("template placeholders without value", "placeholders", unresolved)
	}
	logger.Debug("svg rendered", "path", svgPath)

	rasterizer := render.NewRasterizer(cfg.Rasterizer.Command, cfg.Rasterizer.Width, cfg.Rasterizer.Height, nil)
	if err := rasterizer.Rasterize(ctx, svgPath, pngPath); err != nil {
		return err
	}
	logger.Debug("png rendered", "path", pngPath)

	caption := telegram.Caption(res.Stats.Total, res.Stats.Success, res.Stats.FailedNodes)
	if err := sender.SendPhoto(ctx, pngPath, caption); err != nil {
		return err
	}

	logger.Info("report sent", "failed_nodes", len(res.Stats.FailedNodes))
	fmt.Fprintf(cmd.OutOrStdout(), "Report sent: %d/%d nodes answered\n", res.Stats.Success, res.Stats.Total)
	if keep {
		fmt.Fprintf(cmd.OutOrStdout(), "  svg: %s\n  png: %s\n", svgPath, pngPath)
	}
	return nil
}

// removeFiles deletes generated files, ignoring those never created.
func removeFiles(logger *slog.Logger, paths ...string) {
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warn("failed to remove file", "path", p, "error", err)
		}
	}
}
