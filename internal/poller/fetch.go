package poller

import (
	"context"
	"encoding/json"
	"time"
)

// FetchFunc fetches one route from one node. Implementations never return
// nil and never panic on network failures; every failure is an [Outcome].
type FetchFunc func(ctx context.Context, node, route string) Outcome

// NodeURL returns the URL polled for route on node.
func NodeURL(node, route string) string {
	return "http://" + node + route
}

// FetchRoute performs one bounded GET of route on node and classifies it.
//
// It never retries and never blocks longer than timeout.
func (c *Client) FetchRoute(ctx context.Context, node, route string, timeout time.Duration, decode DecodeFunc) Outcome {
	if decode == nil {
		decode = DecodeJSON
	}
	resp := c.Fetch(ctx, NodeURL(node, route), timeout)
	return classify(route, resp, decode)
}

// FetchFunc binds timeout and decode into a [FetchFunc] backed by c.
func (c *Client) FetchFunc(timeout time.Duration, decode DecodeFunc) FetchFunc {
	return func(ctx context.Context, node, route string) Outcome {
		return c.FetchRoute(ctx, node, route, timeout, decode)
	}
}

// DecodeJSON decodes any JSON document into generic Go values.
func DecodeJSON(_ string, body []byte) (any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return v, nil
}
