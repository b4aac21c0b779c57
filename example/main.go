package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/fleetpulse"
	"github.com/jpalmerr/fleetpulse/internal/mocknode"
)

func main() {
	// three healthy nodes and one that rejects the payout route
	var nodes []string
	for i := range 4 {
		n := mocknode.Random(rand.New(rand.NewPCG(uint64(i), 42)))
		if i == 3 {
			n.Faults = map[string]mocknode.Fault{
				mocknode.RouteEstimatedPayout: {Status: http.StatusServiceUnavailable},
			}
		}
		addr, err := serve(n)
		if err != nil {
			slog.Error("failed to start mock node", "error", err)
			os.Exit(1)
		}
		nodes = append(nodes, addr)
	}

	fp, err := fleetpulse.New(
		fleetpulse.WithNodes(nodes...),
		fleetpulse.WithMaxConcurrent(2),
		fleetpulse.WithRequestTimeout(2*time.Second),
		fleetpulse.WithNodeCallback(func(s fleetpulse.NodeStatus) {
			fmt.Printf("  %-22s ok=%v\n", s.Node, s.OK)
		}),
	)
	if err != nil {
		slog.Error("failed to create fleetpulse", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Polling fleet:")
	res, err := fp.Poll(ctx)
	if err != nil {
		slog.Error("poll failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("\n%d/%d nodes answered every route in %s\n",
		res.Stats.Success, res.Stats.Total, res.Duration.Round(time.Millisecond))
	for _, node := range res.Stats.FailedNodes {
		fmt.Println("  failed:", node)
	}

	if sno, ok := res.Report.SNO(); ok {
		fmt.Printf("fleet disk used: %s bytes\n", sno.DiskSpace.Used)
	}
	if sat, ok := res.Report.Satellites(); ok {
		fmt.Printf("fleet ingress:   %s bytes\n", sat.IngressSummary)
	}
}

// serve starts n on a free local port and returns its address.
func serve(n *mocknode.Node) (string, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	go func() {
		_ = http.Serve(ln, n.Handler())
	}()
	return ln.Addr().String(), nil
}
