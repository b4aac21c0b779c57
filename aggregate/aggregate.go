package aggregate

import (
	"fmt"
	"slices"
)

// Contribution holds the decoded payloads of one fully successful node.
type Contribution struct {
	// Node is the node identifier, used only in error messages.
	Node string

	// Payloads maps route to the payload returned by [Decode].
	// A missing or nil entry means the node contributed nothing to that route.
	Payloads map[string]any
}

// Report maps each route to its merged payload.
//
// A nil value means no node contributed to the route.
type Report map[string]any

// Aggregate merges the payloads of every contribution, route by route.
//
// Each route is folded from its rule's zero value, so even a single
// contribution is normalised (the satellites series is collapsed). Routes
// without contributors map to nil. Returns an error wrapping
// [ErrUnknownRoute] if a route has no rule.
func Aggregate(contributions []Contribution, routes []string) (Report, error) {
	report := make(Report, len(routes))

	for _, route := range routes {
		r, err := Lookup(route)
		if err != nil {
			return nil, err
		}

		acc := r.Zero()
		contributed := false
		for _, c := range contributions {
			payload, ok := c.Payloads[route]
			if !ok || payload == nil {
				continue
			}
			acc, err = r.Merge(acc, payload)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", c.Node, err)
			}
			contributed = true
		}

		if contributed {
			report[route] = acc
		} else {
			report[route] = nil
		}
	}

	return report, nil
}

// SNO returns the merged disk space summary, if present.
func (r Report) SNO() (SNO, bool) {
	v, ok := r[RouteSNO].(SNO)
	return v, ok
}

// EstimatedPayout returns the merged payout summary, if present.
func (r Report) EstimatedPayout() (EstimatedPayout, bool) {
	v, ok := r[RouteEstimatedPayout].(EstimatedPayout)
	return v, ok
}

// Satellites returns the merged bandwidth summary, if present.
func (r Report) Satellites() (Satellites, bool) {
	v, ok := r[RouteSatellites].(Satellites)
	return v, ok
}

// Gaps returns the routes that have no aggregate value, sorted.
func (r Report) Gaps() []string {
	var gaps []string
	for route, v := range r {
		if v == nil {
			gaps = append(gaps, route)
		}
	}
	slices.Sort(gaps)
	return gaps
}
