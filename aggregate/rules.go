package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Known routes.
const (
	RouteSNO             = "/api/sno"
	RouteEstimatedPayout = "/api/sno/estimated-payout"
	RouteSatellites      = "/api/sno/satellites"
)

var (
	// ErrUnknownRoute is returned for a route that has no merge rule.
	ErrUnknownRoute = errors.New("no merge rule for route")

	// ErrPayloadType is returned when a payload does not have the shape of
	// its route's schema.
	ErrPayloadType = errors.New("payload has wrong type for route")
)

// Rule decodes and merges the payloads of one route.
//
// Merge must be commutative and associative, and Zero must be its identity
// element, so that folding any permutation of payloads from Zero yields the
// same value.
type Rule interface {
	// Decode parses a response body into the route's payload type.
	Decode(body []byte) (any, error)

	// Merge combines two payloads of the route's payload type.
	Merge(a, b any) (any, error)

	// Zero returns the identity payload.
	Zero() any
}

// rule adapts a typed merge function to [Rule].
type rule[T any] struct {
	route string
	merge func(a, b T) T
}

func (r rule[T]) Decode(body []byte) (any, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.route, err)
	}
	return v, nil
}

func (r rule[T]) Merge(a, b any) (any, error) {
	x, ok := a.(T)
	if !ok {
		return nil, fmt.Errorf("%w: %s: got %T", ErrPayloadType, r.route, a)
	}
	y, ok := b.(T)
	if !ok {
		return nil, fmt.Errorf("%w: %s: got %T", ErrPayloadType, r.route, b)
	}
	return r.merge(x, y), nil
}

func (r rule[T]) Zero() any {
	var v T
	return v
}

var rules = map[string]Rule{
	RouteSNO:             rule[SNO]{route: RouteSNO, merge: mergeSNO},
	RouteEstimatedPayout: rule[EstimatedPayout]{route: RouteEstimatedPayout, merge: mergeEstimatedPayout},
	RouteSatellites:      rule[Satellites]{route: RouteSatellites, merge: mergeSatellites},
}

// DefaultRoutes returns the known routes in their canonical polling order.
func DefaultRoutes() []string {
	return []string{RouteSNO, RouteEstimatedPayout, RouteSatellites}
}

// KnownRoutes returns every route that has a merge rule, sorted.
func KnownRoutes() []string {
	routes := make([]string, 0, len(rules))
	for r := range rules {
		routes = append(routes, r)
	}
	slices.Sort(routes)
	return routes
}

// Lookup returns the merge rule for route.
func Lookup(route string) (Rule, error) {
	r, ok := rules[route]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownRoute, route)
	}
	return r, nil
}

// Decode parses body with the rule registered for route.
func Decode(route string, body []byte) (any, error) {
	r, err := Lookup(route)
	if err != nil {
		return nil, err
	}
	return r.Decode(body)
}
