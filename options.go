package fleetpulse

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jpalmerr/fleetpulse/aggregate"
)

// fpConfig holds mutable state during FleetPulse construction.
type fpConfig struct {
	nodes          []string
	routes         []string
	maxConcurrent  int
	requestTimeout time.Duration
	logger         *slog.Logger
	nodeCallbacks  []func(NodeStatus)
}

// Option is a function that configures a [FleetPulse] instance during construction.
//
// Options return an error if validation fails; [New] stops at the first one.
//
// Built-in options: [WithNodes], [WithRoutes], [WithMaxConcurrent],
// [WithRequestTimeout], [WithLogger], [WithNodeCallback].
type Option func(*fpConfig) error

// WithNodes adds nodes to the fleet.
//
// Each node is a "host[:port]" or "[ipv6]:port" string. Surrounding
// whitespace is trimmed and blank entries are dropped. Duplicates are kept
// and polled independently. Can be called multiple times.
//
// Example:
//
//	fp, err := fleetpulse.New(
//	    fleetpulse.WithNodes("10.0.0.1:14002", "10.0.0.2:14002"),
//	)
func WithNodes(nodes ...string) Option {
	return func(cfg *fpConfig) error {
		for _, n := range nodes {
			n = strings.TrimSpace(n)
			if n == "" {
				continue
			}
			cfg.nodes = append(cfg.nodes, n)
		}
		return nil
	}
}

// WithRoutes replaces the set of routes polled on every node.
//
// Every route must have a merge rule (see [aggregate.KnownRoutes]) and may
// appear only once. Defaults to [aggregate.DefaultRoutes]. Passing no
// routes is allowed: every node then counts as successful and the report
// is empty.
//
// Returns an error wrapping [ErrUnknownRoute] for a route without a rule.
func WithRoutes(routes ...string) Option {
	return func(cfg *fpConfig) error {
		seen := make(map[string]bool, len(routes))
		for _, route := range routes {
			if _, err := aggregate.Lookup(route); err != nil {
				return err
			}
			if seen[route] {
				return fmt.Errorf("duplicate route: %q", route)
			}
			seen[route] = true
		}
		cfg.routes = append([]string{}, routes...)
		return nil
	}
}

// WithMaxConcurrent sets the maximum number of route fetches in flight.
//
// The bound covers the whole fleet, not each node. Defaults to 20.
//
// Returns an error if the value is zero or negative.
func WithMaxConcurrent(n int) Option {
	return func(cfg *fpConfig) error {
		if n <= 0 {
			return errors.New("max concurrent must be positive")
		}
		cfg.maxConcurrent = n
		return nil
	}
}

// WithRequestTimeout sets the timeout of a single route fetch, including
// the body read. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *fpConfig) error {
		if d <= 0 {
			return errors.New("request timeout must be positive")
		}
		cfg.requestTimeout = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the FleetPulse instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *fpConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithNodeCallback registers a function to be called as each node finishes
// during [FleetPulse.Poll].
//
// Callbacks run in registration order and are never called concurrently.
// They must not block: the node's goroutine waits for them. Panics within
// callbacks are recovered and logged.
//
// Example:
//
//	fp, err := fleetpulse.New(
//	    fleetpulse.WithNodes(nodes...),
//	    fleetpulse.WithNodeCallback(func(s fleetpulse.NodeStatus) {
//	        if !s.OK {
//	            log.Printf("%s did not answer every route", s.Node)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithNodeCallback(cb func(NodeStatus)) Option {
	return func(cfg *fpConfig) error {
		if cb == nil {
			return nil
		}
		cfg.nodeCallbacks = append(cfg.nodeCallbacks, cb)
		return nil
	}
}
