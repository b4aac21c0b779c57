package fleetpulse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jpalmerr/fleetpulse/aggregate"
	"github.com/jpalmerr/fleetpulse/internal/poller"
)

const (
	defaultMaxConcurrent  = 20
	defaultRequestTimeout = 10 * time.Second
)

var (
	// ErrNoInput is returned by [FleetPulse.Poll] when there are neither
	// nodes nor routes to poll.
	ErrNoInput = poller.ErrNoInput

	// ErrUnknownRoute is returned for a route without a merge rule.
	ErrUnknownRoute = aggregate.ErrUnknownRoute
)

// FleetPulse polls a fleet of storage nodes and merges their telemetry.
//
// FleetPulse is created using [New] with functional options and is
// immutable afterwards. Every call to [FleetPulse.Poll] is an independent
// poll cycle; nothing is carried over between calls.
//
// The typical lifecycle is:
//
//	fp, err := fleetpulse.New(
//	    fleetpulse.WithNodes(nodes...),
//	    fleetpulse.WithMaxConcurrent(20),
//	)
//	if err != nil {
//	    slog.Error("failed to create fleetpulse", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
//	defer cancel()
//
//	res, err := fp.Poll(ctx)
type FleetPulse struct {
	nodes          []string
	routes         []string
	maxConcurrent  int
	requestTimeout time.Duration
	logger         *slog.Logger
	nodeCallbacks  []func(NodeStatus)
}

// New creates a new [FleetPulse] instance with the given options.
//
// Defaults:
//   - Routes: [aggregate.DefaultRoutes]
//   - Max concurrent fetches: 20
//   - Request timeout: 10 seconds
//
// An empty node list is valid; polling it yields empty stats.
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*FleetPulse, error) {
	cfg := &fpConfig{
		routes:         aggregate.DefaultRoutes(),
		maxConcurrent:  defaultMaxConcurrent,
		requestTimeout: defaultRequestTimeout,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// default to slog.Default() if no logger provided
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FleetPulse{
		nodes:          cfg.nodes,
		routes:         cfg.routes,
		maxConcurrent:  cfg.maxConcurrent,
		requestTimeout: cfg.requestTimeout,
		logger:         logger,
		nodeCallbacks:  cfg.nodeCallbacks,
	}, nil
}

// Poll polls every node once and aggregates the successful ones.
//
// A node is successful only if every route returned a well-formed 200
// response; any other node is listed in [Stats.FailedNodes] and contributes
// nothing to the report. Routes no successful node answered map to nil in
// the report.
//
// Poll returns an error only for [ErrNoInput], an aggregation failure or
// context cancellation. Per-node failures are reported in the result.
func (fp *FleetPulse) Poll(ctx context.Context) (*Result, error) {
	start := time.Now()
	fp.logger.Info("poll starting",
		"node_count", len(fp.nodes),
		"route_count", len(fp.routes),
		"max_concurrent", fp.maxConcurrent,
	)

	client := poller.NewClient()
	defer client.Close()

	coord := poller.NewCoordinator(
		client.FetchFunc(fp.requestTimeout, aggregate.Decode),
		fp.maxConcurrent,
		fp.logger,
	)
	if len(fp.nodeCallbacks) > 0 {
		coord.OnNodeComplete(func(r poller.NodeResult) {
			status := toNodeStatus(r, fp.routes)
			for _, cb := range fp.nodeCallbacks {
				invokeCallbackSafe(cb, status, fp.logger)
			}
		})
	}

	cycle, err := coord.Run(ctx, fp.nodes, fp.routes)
	if err != nil {
		return nil, fmt.Errorf("poll: %w", err)
	}

	result := &Result{
		Stats:    toPublicStats(cycle.Stats),
		PolledAt: start,
	}

	if len(cycle.Results) > 0 {
		successful := cycle.Successful()
		contributions := make([]aggregate.Contribution, len(successful))
		for i, r := range successful {
			contributions[i] = aggregate.Contribution{Node: r.Node, Payloads: r.Payloads()}
		}

		report, err := aggregate.Aggregate(contributions, fp.routes)
		if err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		result.Report = report

		result.Nodes = make([]NodeStatus, len(cycle.Results))
		for i, r := range cycle.Results {
			result.Nodes[i] = toNodeStatus(r, fp.routes)
		}
	}

	result.Duration = time.Since(start)
	if gaps := result.Report.Gaps(); len(gaps) > 0 && result.Stats.Total > 0 {
		fp.logger.Warn("routes without data", "routes", gaps)
	}

	return result, nil
}

// Nodes returns a copy of the configured nodes.
func (fp *FleetPulse) Nodes() []string {
	return append([]string(nil), fp.nodes...)
}

// Routes returns a copy of the configured routes.
func (fp *FleetPulse) Routes() []string {
	return append([]string(nil), fp.routes...)
}

// MaxConcurrent returns the configured fetch concurrency bound.
func (fp *FleetPulse) MaxConcurrent() int {
	return fp.maxConcurrent
}

// RequestTimeout returns the configured per-fetch timeout.
func (fp *FleetPulse) RequestTimeout() time.Duration {
	return fp.requestTimeout
}

// invokeCallbackSafe calls a node callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(NodeStatus), status NodeStatus, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("node callback panicked",
				"panic", r,
				"node", status.Node,
			)
		}
	}()
	cb(status)
}
