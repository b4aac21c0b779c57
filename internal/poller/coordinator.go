package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// progressEvery is how many completed nodes pass between progress logs.
const progressEvery = 50

// ErrNoInput is returned when a cycle has neither nodes nor routes.
var ErrNoInput = errors.New("no nodes and no routes to poll")

// Stats summarises one poll cycle.
type Stats struct {
	// Total is the number of polled nodes.
	Total int `json:"total"`

	// Success is the number of nodes that answered every route.
	Success int `json:"success"`

	// FailedNodes lists the other nodes, in input order.
	FailedNodes []string `json:"failed_nodes"`

	// ByRoute counts, per route, the nodes that answered it, whether or not
	// they failed another route.
	ByRoute map[string]int `json:"by_route"`
}

// Cycle is the complete result of one poll cycle.
type Cycle struct {
	// Routes are the routes that were polled, in order.
	Routes []string

	// Results holds one entry per input node, in input order.
	Results []NodeResult

	// Stats summarises Results.
	Stats Stats
}

// Successful returns the results of the nodes that answered every route.
func (c Cycle) Successful() []NodeResult {
	var ok []NodeResult
	for _, r := range c.Results {
		if r.Succeeded(c.Routes) {
			ok = append(ok, r)
		}
	}
	return ok
}

// Coordinator polls a whole fleet once.
//
// Every node gets its own goroutine, but at most maxConcurrent route fetches
// are in flight at any time across the fleet. The bound applies to fetches,
// not nodes, because each node task issues its fetches sequentially.
type Coordinator struct {
	fetch         FetchFunc
	maxConcurrent int
	logger        *slog.Logger

	callbackMu sync.Mutex
	onNode     func(NodeResult)
}

// NewCoordinator creates a [Coordinator].
//
// Parameters:
//   - fetch: performs a single route fetch (see [Client.FetchFunc])
//   - maxConcurrent: maximum number of fetches in flight, at least 1
//   - logger: logger for progress, failures and recovered panics
func NewCoordinator(fetch FetchFunc, maxConcurrent int, logger *slog.Logger) *Coordinator {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		fetch:         fetch,
		maxConcurrent: maxConcurrent,
		logger:        logger,
	}
}

// OnNodeComplete registers cb to be called after each node finishes.
//
// Calls are serialised. Panics in cb are recovered and logged.
func (c *Coordinator) OnNodeComplete(cb func(NodeResult)) {
	c.onNode = cb
}

// Run polls every node for every route and waits for all of them.
//
// A node task that panics is recorded as failing every route; sibling tasks
// are unaffected. An empty node list yields an empty cycle, unless routes is
// empty too, which is [ErrNoInput]. If ctx is cancelled, in-flight fetches
// are abandoned, no partial results are published and ctx.Err() is returned.
func (c *Coordinator) Run(ctx context.Context, nodes, routes []string) (Cycle, error) {
	if len(nodes) == 0 && len(routes) == 0 {
		return Cycle{}, ErrNoInput
	}
	if len(nodes) == 0 {
		return Cycle{Routes: routes, Stats: computeStats(nil, routes)}, nil
	}

	sem := semaphore.NewWeighted(int64(c.maxConcurrent))
	bounded := func(ctx context.Context, node, route string) Outcome {
		if err := sem.Acquire(ctx, 1); err != nil {
			return TransportError{Message: "not started: " + err.Error()}
		}
		defer sem.Release(1)
		return c.fetchLogged(ctx, node, route)
	}

	results := make([]NodeResult, len(nodes))
	var completed atomic.Int64

	var g errgroup.Group
	for i, node := range nodes {
		g.Go(func() error {
			res, err := c.pollNodeSafe(ctx, bounded, node, routes)
			if err != nil {
				// cancelled: nothing is published for this node
				return nil
			}
			results[i] = res

			if n := completed.Add(1); n%progressEvery == 0 {
				c.logger.Info("poll progress", "completed", n, "total", len(nodes))
			}
			c.notify(res)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Cycle{}, err
	}

	cycle := Cycle{
		Routes:  routes,
		Results: results,
		Stats:   computeStats(results, routes),
	}

	for _, name := range cycle.Stats.FailedNodes {
		c.logger.Debug("node failed", "node", name)
	}
	c.logger.Info("poll cycle complete",
		"total", cycle.Stats.Total,
		"success", cycle.Stats.Success,
		"failed", len(cycle.Stats.FailedNodes),
	)

	return cycle, nil
}

// fetchLogged calls the fetcher and logs the outcome.
func (c *Coordinator) fetchLogged(ctx context.Context, node, route string) Outcome {
	start := time.Now()
	out := c.fetch(ctx, node, route)
	if out == nil {
		out = TransportError{Message: "no outcome"}
	}

	attrs := []any{
		"node", node,
		"route", route,
		"outcome", out.Kind(),
		"latency_ms", time.Since(start).Milliseconds(),
	}
	if out.Succeeded() {
		c.logger.Debug("route polled", attrs...)
	} else {
		c.logger.Warn("route poll failed", append(attrs, "error", out.String())...)
	}
	return out
}

// pollNodeSafe polls one node with panic recovery.
// If the task panics, it logs the stack with a correlation ID and returns a
// result in which every route failed.
func (c *Coordinator) pollNodeSafe(ctx context.Context, fetch FetchFunc, node string, routes []string) (result NodeResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()

			c.logger.Error("node task panic",
				"correlation_id", correlationID,
				"node", node,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)

			if ctx.Err() != nil {
				result, err = NodeResult{}, ctx.Err()
				return
			}
			result, err = failedResult(node, routes, fmt.Sprintf("internal error (correlation_id: %s)", correlationID)), nil
		}
	}()
	return PollNode(ctx, fetch, node, routes)
}

// notify invokes the node callback with panic recovery.
func (c *Coordinator) notify(res NodeResult) {
	if c.onNode == nil {
		return
	}

	c.callbackMu.Lock()
	defer c.callbackMu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("node callback panicked",
				"panic", r,
				"node", res.Node,
			)
		}
	}()
	c.onNode(res)
}

// failedResult builds a result in which every route failed with msg.
func failedResult(node string, routes []string, msg string) NodeResult {
	outcomes := make(map[string]Outcome, len(routes))
	for _, route := range routes {
		outcomes[route] = TransportError{Message: msg}
	}
	return NodeResult{Node: node, Outcomes: outcomes}
}

// computeStats classifies results against routes.
func computeStats(results []NodeResult, routes []string) Stats {
	stats := Stats{
		Total:       len(results),
		FailedNodes: []string{},
		ByRoute:     make(map[string]int, len(routes)),
	}
	if len(results) > 0 {
		for _, route := range routes {
			stats.ByRoute[route] = 0
		}
	}

	for _, r := range results {
		if r.Succeeded(routes) {
			stats.Success++
		} else {
			stats.FailedNodes = append(stats.FailedNodes, r.Node)
		}
		for _, route := range routes {
			if out, ok := r.Outcomes[route]; ok && out != nil && out.Succeeded() {
				stats.ByRoute[route]++
			}
		}
	}

	return stats
}
