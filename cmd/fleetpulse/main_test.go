package main

import (
	"bytes"
	"math/rand/v2"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/fleetpulse/internal/mocknode"
)

// execute runs the CLI with args and returns captured stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// serveNode starts n and returns its host:port.
func serveNode(t *testing.T, n *mocknode.Node) string {
	t.Helper()
	srv := httptest.NewServer(n.Handler())
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func randomNode(seed uint64) *mocknode.Node {
	return mocknode.Random(rand.New(rand.NewPCG(seed, seed+1)))
}

// writeFile writes content to name inside dir and returns the full path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)

	assert.Contains(t, stdout, "fleetpulse dev")
	assert.Contains(t, stdout, "commit: none")
	assert.Contains(t, stdout, "built:  unknown")
}

func TestInvalidLogLevel(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "nodes: [127.0.0.1:1]\n")

	_, _, err := execute(t, "--log-level", "loud", "poll", "-c", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --log-level")
}

func TestConfigFlagRequired(t *testing.T) {
	for _, sub := range []string{"poll", "report", "validate"} {
		t.Run(sub, func(t *testing.T) {
			_, _, err := execute(t, sub)
			require.Error(t, err)
			assert.Contains(t, err.Error(), `"config" not set`)
		})
	}
}

func TestCommandsHaveFreshFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "nodes: [127.0.0.1:1]\n")

	_, _, err := execute(t, "validate", "-c", cfg)
	require.NoError(t, err)

	// a second tree must not remember -c from the first
	_, _, err = execute(t, "validate")
	require.Error(t, err)
}
