package fleetpulse

import (
	"maps"
	"time"

	"github.com/jpalmerr/fleetpulse/aggregate"
	"github.com/jpalmerr/fleetpulse/internal/poller"
)

// OutcomeKind classifies the result of fetching one route from one node.
type OutcomeKind string

const (
	// OutcomeSuccess is a 200 response with a well-formed payload.
	OutcomeSuccess OutcomeKind = poller.KindSuccess

	// OutcomeHTTPError is a response with any status other than 200.
	OutcomeHTTPError OutcomeKind = poller.KindHTTPError

	// OutcomeTimeout means the request timeout expired.
	OutcomeTimeout OutcomeKind = poller.KindTimeout

	// OutcomeTransportError covers connection failures and malformed payloads.
	OutcomeTransportError OutcomeKind = poller.KindTransportError
)

// String returns the string representation of the kind.
func (k OutcomeKind) String() string {
	return string(k)
}

// RouteStatus is the outcome of one route on one node.
type RouteStatus struct {
	Kind OutcomeKind `json:"kind"`

	// StatusCode is set for [OutcomeSuccess] and [OutcomeHTTPError].
	StatusCode int `json:"status_code,omitempty"`

	// Message describes an [OutcomeTransportError].
	Message string `json:"message,omitempty"`
}

// NodeStatus is the per-route outcome of one node.
type NodeStatus struct {
	Node string `json:"node"`

	// OK is true when every configured route succeeded. Only such nodes
	// contribute to the report.
	OK bool `json:"ok"`

	Routes map[string]RouteStatus `json:"routes"`
}

// Stats summarises one poll.
type Stats struct {
	// Total is the number of polled nodes.
	Total int `json:"total"`

	// Success is the number of nodes that answered every route.
	Success int `json:"success"`

	// FailedNodes lists the other nodes, in input order.
	FailedNodes []string `json:"failed_nodes"`

	// ByRoute counts, per route, the nodes that answered it.
	ByRoute map[string]int `json:"by_route"`
}

// Failed returns the number of nodes that did not answer every route.
func (s Stats) Failed() int {
	return s.Total - s.Success
}

// Result is the outcome of [FleetPulse.Poll].
type Result struct {
	// Report holds the fleet-wide totals merged from successful nodes.
	// nil when no nodes were polled.
	Report aggregate.Report `json:"report"`

	Stats Stats `json:"stats"`

	// Nodes holds one entry per polled node, in input order.
	Nodes []NodeStatus `json:"nodes,omitempty"`

	// PolledAt is when the poll started.
	PolledAt time.Time `json:"polled_at"`

	// Duration is how long the whole poll took.
	Duration time.Duration `json:"-"`
}

// Gaps returns the routes no node contributed to, sorted.
func (r *Result) Gaps() []string {
	return r.Report.Gaps()
}

// toPublicStats converts poller stats to the public type.
// The slice and map are copied so callers cannot alias internal state.
func toPublicStats(s poller.Stats) Stats {
	failed := make([]string, len(s.FailedNodes))
	copy(failed, s.FailedNodes)

	byRoute := make(map[string]int, len(s.ByRoute))
	maps.Copy(byRoute, s.ByRoute)

	return Stats{
		Total:       s.Total,
		Success:     s.Success,
		FailedNodes: failed,
		ByRoute:     byRoute,
	}
}

// toNodeStatus converts a poller node result to the public type.
func toNodeStatus(r poller.NodeResult, routes []string) NodeStatus {
	statuses := make(map[string]RouteStatus, len(r.Outcomes))
	for route, out := range r.Outcomes {
		statuses[route] = toRouteStatus(out)
	}
	return NodeStatus{
		Node:   r.Node,
		OK:     r.Succeeded(routes),
		Routes: statuses,
	}
}

// toRouteStatus flattens an outcome into a [RouteStatus].
func toRouteStatus(out poller.Outcome) RouteStatus {
	switch o := out.(type) {
	case poller.Success:
		return RouteStatus{Kind: OutcomeSuccess, StatusCode: o.StatusCode}
	case poller.HTTPError:
		return RouteStatus{Kind: OutcomeHTTPError, StatusCode: o.StatusCode}
	case poller.Timeout:
		return RouteStatus{Kind: OutcomeTimeout}
	case poller.TransportError:
		return RouteStatus{Kind: OutcomeTransportError, Message: o.Message}
	default:
		return RouteStatus{Kind: OutcomeTransportError, Message: "no outcome"}
	}
}
