package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// Runner abstracts command execution so the rasterizer can be tested
// without the real converter installed.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// OSRunner executes commands on the host via os/exec.
type OSRunner struct{}

// Run runs the command and folds its stderr into the returned error.
func (OSRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// Rasterizer converts SVG files to PNG with rsvg-convert or a command
// accepting the same arguments.
type Rasterizer struct {
	command string
	width   int
	height  int
	runner  Runner
}

// NewRasterizer creates a [Rasterizer]. The output size is only passed to
// the command when both width and height are positive. A nil runner uses
// [OSRunner].
func NewRasterizer(command string, width, height int, runner Runner) *Rasterizer {
	if runner == nil {
		runner = OSRunner{}
	}
	return &Rasterizer{command: command, width: width, height: height, runner: runner}
}

// Args returns the command arguments converting svgPath into pngPath.
func (r *Rasterizer) Args(svgPath, pngPath string) []string {
	args := []string{"-o", pngPath}
	if r.width > 0 && r.height > 0 {
		args = append(args, "--width", strconv.Itoa(r.width), "--height", strconv.Itoa(r.height))
	}
	return append(args, svgPath)
}

// Rasterize converts svgPath into pngPath.
func (r *Rasterizer) Rasterize(ctx context.Context, svgPath, pngPath string) error {
	if _, err := os.Stat(svgPath); err != nil {
		return fmt.Errorf("svg not found: %w", err)
	}

	if err := r.runner.Run(ctx, r.command, r.Args(svgPath, pngPath)...); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s not found (install librsvg2-bin): %w", r.command, err)
		}
		return fmt.Errorf("rasterize %s: %w", svgPath, err)
	}

	if _, err := os.Stat(pngPath); err != nil {
		return fmt.Errorf("%s produced no output: %w", r.command, err)
	}
	return nil
}
