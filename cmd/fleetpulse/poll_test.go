package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpalmerr/fleetpulse/internal/mocknode"
)

func TestPoll_PrintsSummaryAndWritesJSON(t *testing.T) {
	good := serveNode(t, &mocknode.Node{
		Used:           2_000_000_000_000,
		Trash:          500_000_000_000,
		Payout:         1234,
		Held:           100,
		Expectations:   5000,
		IngressSummary: 300_000_000_000,
		EgressSummary:  700_000_000_000,
	})
	broken := serveNode(t, &mocknode.Node{
		Faults: map[string]mocknode.Fault{mocknode.RouteSatellites: {Status: http.StatusInternalServerError}},
	})

	dir := t.TempDir()
	writeFile(t, dir, "nodes.txt", "# fleet\n"+good+"\n"+broken+"\n")
	cfg := writeFile(t, dir, "config.yaml", "nodes_file: nodes.txt\nrequest_timeout: 2s\n")
	out := filepath.Join(dir, "report.json")

	stdout, stderr, err := execute(t, "poll", "-c", cfg, "-o", out)
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "1/2 nodes answered every route")
	assert.Contains(t, stdout, "failed:")
	assert.Contains(t, stdout, broken)
	assert.Contains(t, stdout, "/api/sno/satellites")
	assert.Contains(t, stdout, "disk used:  2.00 TB (trash 500.00 GB)")
	assert.Contains(t, stdout, "earnings:   $12.34 paid, $1.00 held, $50.00 expected")
	assert.Contains(t, stdout, "bandwidth:  300.00 GB in, 700.00 GB out")
	assert.Contains(t, stderr, `"msg":"report written"`)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc struct {
		Report map[string]json.RawMessage `json:"report"`
		Stats  struct {
			Total       int            `json:"total"`
			Success     int            `json:"success"`
			FailedNodes []string       `json:"failed_nodes"`
			ByRoute     map[string]int `json:"by_route"`
		} `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, 2, doc.Stats.Total)
	assert.Equal(t, 1, doc.Stats.Success)
	assert.Equal(t, []string{broken}, doc.Stats.FailedNodes)
	assert.Equal(t, map[string]int{
		mocknode.RouteSNO:             2,
		mocknode.RouteEstimatedPayout: 2,
		mocknode.RouteSatellites:      1,
	}, doc.Stats.ByRoute)
	assert.Len(t, doc.Report, 3)
}

func TestPoll_NoOutputFile(t *testing.T) {
	node := serveNode(t, randomNode(1))

	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "nodes: ["+node+"]\n")

	stdout, _, err := execute(t, "poll", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1/1 nodes answered every route")
	assert.NotContains(t, stdout, "failed:")
	assert.NotContains(t, stdout, "no data:")
}

func TestPoll_AllNodesFailed(t *testing.T) {
	node := serveNode(t, &mocknode.Node{
		Faults: map[string]mocknode.Fault{mocknode.RouteSNO: {Body: "not json"}},
	})

	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "nodes: ["+node+"]\nroutes: [/api/sno]\n")

	stdout, _, err := execute(t, "poll", "-c", cfg)
	require.NoError(t, err)
	assert.Contains(t, stdout, "0/1 nodes answered every route")
	assert.Contains(t, stdout, "no data: /api/sno")
	assert.NotContains(t, stdout, "disk used:")
}

func TestPoll_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "routes: [/api/unknown]\n")

	_, _, err := execute(t, "poll", "-c", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestPoll_MissingNodesFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "config.yaml", "nodes_file: missing.txt\n")

	_, _, err := execute(t, "poll", "-c", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load nodes")
}
