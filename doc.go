// Package fleetpulse polls a fleet of storage node dashboards and merges
// their telemetry into fleet-wide totals.
//
// Each poll cycle fetches a fixed set of JSON routes from every node, with
// a global bound on concurrent requests and a timeout on each request.
// Nodes that answer every route are merged into a single report; all other
// nodes are listed as failed. There is no partial credit and no retry.
//
// # Quick Start
//
//	nodes, _ := config.LoadNodes("nodes.txt")
//	fp, _ := fleetpulse.New(fleetpulse.WithNodes(nodes...))
//
//	res, err := fp.Poll(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d/%d nodes answered\n", res.Stats.Success, res.Stats.Total)
//
//	if sno, ok := res.Report.SNO(); ok {
//	    fmt.Println("disk used:", sno.DiskSpace.Used)
//	}
//
// # Configuration
//
// FleetPulse uses the functional options pattern:
//
//	fp, err := fleetpulse.New(
//	    fleetpulse.WithNodes(nodes...),
//	    fleetpulse.WithRoutes(aggregate.RouteSNO, aggregate.RouteSatellites),
//	    fleetpulse.WithMaxConcurrent(50),
//	    fleetpulse.WithRequestTimeout(5 * time.Second),
//	)
//
// # Architecture
//
//   - internal/poller: HTTP fetches, per-node polling and the bounded fan-out
//   - aggregate: route merge rules and exact numeric totals
//   - config: YAML configuration and node list loading
//   - internal/render: SVG report card and rasterisation
//   - internal/telegram: report delivery
//
// Numbers in the report are exact rationals ([aggregate.Number]), so the
// totals do not depend on the order in which nodes answered.
package fleetpulse
