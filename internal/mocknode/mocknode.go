// Package mocknode serves fake storage node dashboards for tests and local
// end-to-end runs.
package mocknode

import (
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"
)

// Route paths served by a [Node].
const (
	RouteSNO             = "/api/sno"
	RouteEstimatedPayout = "/api/sno/estimated-payout"
	RouteSatellites      = "/api/sno/satellites"
)

// Day is one entry of the daily bandwidth series, in bytes.
type Day struct {
	IngressUsage  int64
	IngressRepair int64
	EgressUsage   int64
	EgressRepair  int64
	EgressAudit   int64
}

// Fault overrides the normal answer of one route.
type Fault struct {
	// Delay is waited before answering, or until the client gives up.
	Delay time.Duration

	// Status, if non-zero, is written instead of 200.
	Status int

	// Body, if non-empty, is written instead of the normal payload.
	Body string
}

// Node is a fake storage node. Configure it before serving; it is not
// modified afterwards.
type Node struct {
	// disk space, bytes
	Used  int64
	Trash int64

	// current month payout, cents
	Payout                  int64
	Held                    int64
	DiskSpacePayout         int64
	EgressBandwidthPayout   int64
	EgressRepairAuditPayout int64
	Expectations            int64

	IngressSummary int64
	EgressSummary  int64
	Daily          []Day

	// Faults maps a route to the fault injected on it.
	Faults map[string]Fault
}

// Random returns a node with plausible values drawn from rng.
func Random(rng *rand.Rand) *Node {
	const tb = 1_000_000_000_000

	n := &Node{
		Used:                    rng.Int64N(8*tb) + tb/2,
		Trash:                   rng.Int64N(tb / 20),
		DiskSpacePayout:         rng.Int64N(2_000),
		EgressBandwidthPayout:   rng.Int64N(1_500),
		EgressRepairAuditPayout: rng.Int64N(300),
		Held:                    rng.Int64N(500),
	}
	n.Payout = n.DiskSpacePayout + n.EgressBandwidthPayout + n.EgressRepairAuditPayout
	n.Expectations = n.Payout * 2

	for range 30 {
		d := Day{
			IngressUsage:  rng.Int64N(50_000_000_000),
			IngressRepair: rng.Int64N(5_000_000_000),
			EgressUsage:   rng.Int64N(80_000_000_000),
			EgressRepair:  rng.Int64N(8_000_000_000),
			EgressAudit:   rng.Int64N(10_000_000),
		}
		n.IngressSummary += d.IngressUsage + d.IngressRepair
		n.EgressSummary += d.EgressUsage + d.EgressRepair + d.EgressAudit
		n.Daily = append(n.Daily, d)
	}
	return n
}

// Handler returns an [http.Handler] serving the three dashboard routes.
func (n *Node) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+RouteSNO, n.serve(RouteSNO, n.sno))
	mux.HandleFunc("GET "+RouteEstimatedPayout, n.serve(RouteEstimatedPayout, n.estimatedPayout))
	mux.HandleFunc("GET "+RouteSatellites, n.serve(RouteSatellites, n.satellites))
	return mux
}

func (n *Node) serve(route string, payload func() any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fault := n.Faults[route]

		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-r.Context().Done():
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if fault.Status != 0 {
			w.WriteHeader(fault.Status)
		}
		if fault.Body != "" {
			_, _ = w.Write([]byte(fault.Body))
			return
		}
		if err := json.NewEncoder(w).Encode(payload()); err != nil {
			slog.Error("failed to write response", "route", route, "error", err)
		}
	}
}

func (n *Node) sno() any {
	return map[string]any{
		"diskSpace": map[string]any{
			"used":      n.Used,
			"available": n.Used * 2,
			"trash":     n.Trash,
		},
	}
}

func (n *Node) estimatedPayout() any {
	return map[string]any{
		"currentMonth": map[string]any{
			"payout":                  n.Payout,
			"held":                    n.Held,
			"diskSpacePayout":         n.DiskSpacePayout,
			"egressBandwidthPayout":   n.EgressBandwidthPayout,
			"egressRepairAuditPayout": n.EgressRepairAuditPayout,
		},
		"currentMonthExpectations": n.Expectations,
	}
}

func (n *Node) satellites() any {
	daily := make([]map[string]any, len(n.Daily))
	for i, d := range n.Daily {
		daily[i] = map[string]any{
			"ingress": map[string]any{"usage": d.IngressUsage, "repair": d.IngressRepair},
			"egress":  map[string]any{"usage": d.EgressUsage, "repair": d.EgressRepair, "audit": d.EgressAudit},
		}
	}
	return map[string]any{
		"ingressSummary": n.IngressSummary,
		"egressSummary":  n.EgressSummary,
		"bandwidthDaily": daily,
	}
}
