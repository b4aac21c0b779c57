// Package poller polls a fleet of storage nodes once.
//
// This package is internal to fleetpulse. It performs the network side of a
// poll cycle and classifies what came back; merging payloads is left to the
// aggregate package.
//
// The main components are:
//
//   - [Client]: pooled HTTP client with per-request timeouts and size limits
//   - [Client.FetchRoute]: one bounded GET of one route, classified as an [Outcome]
//   - [PollNode]: every route of one node, sequentially
//   - [Coordinator]: every node concurrently, under a global fetch bound
//   - [Stats]: success counts and the failed node list of a cycle
//
// A node counts as successful only if every configured route returned
// [Success]. There is no partial credit.
package poller
