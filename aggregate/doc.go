// Package aggregate merges per-node storage node telemetry into fleet-wide
// totals.
//
// Each known route has a fixed payload schema and a merge [Rule]:
//
//   - [RouteSNO]: disk space summary ([SNO])
//   - [RouteEstimatedPayout]: current month payout summary ([EstimatedPayout])
//   - [RouteSatellites]: bandwidth time series ([Satellites])
//
// Rules are looked up by route; there is no generic fallback, so adding a
// route means adding a rule. Numeric leaves are held as exact rationals
// ([Number]), which makes every merge commutative and associative: the
// resulting [Report] does not depend on the order in which nodes are folded.
//
// A route that no node contributed to is present in the report with a nil
// value, which distinguishes "no data" from a measured zero.
package aggregate
