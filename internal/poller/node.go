package poller

import "context"

// NodeResult holds every route outcome for one node.
type NodeResult struct {
	// Node is the polled node identifier.
	Node string

	// Outcomes maps route to the outcome of fetching it.
	Outcomes map[string]Outcome
}

// Succeeded reports whether every one of routes returned [Success].
// A missing outcome counts as a failure.
func (r NodeResult) Succeeded(routes []string) bool {
	for _, route := range routes {
		out, ok := r.Outcomes[route]
		if !ok || out == nil || !out.Succeeded() {
			return false
		}
	}
	return true
}

// Payloads returns the payloads of the successful routes.
func (r NodeResult) Payloads() map[string]any {
	payloads := make(map[string]any, len(r.Outcomes))
	for route, out := range r.Outcomes {
		if s, ok := out.(Success); ok {
			payloads[route] = s.Payload
		}
	}
	return payloads
}

// PollNode fetches every route of node in order, one at a time.
//
// All routes are attempted even after a failure so per-route statistics stay
// meaningful. If ctx is cancelled the partial result is dropped and
// ctx.Err() is returned.
func PollNode(ctx context.Context, fetch FetchFunc, node string, routes []string) (NodeResult, error) {
	result := NodeResult{
		Node:     node,
		Outcomes: make(map[string]Outcome, len(routes)),
	}

	for _, route := range routes {
		out := fetch(ctx, node, route)
		if err := ctx.Err(); err != nil {
			return NodeResult{}, err
		}
		if out == nil {
			out = TransportError{Message: "no outcome"}
		}
		result.Outcomes[route] = out
	}

	return result, nil
}
