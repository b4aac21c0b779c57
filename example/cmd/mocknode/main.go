// Standalone fleet of fake storage nodes for trying the CLI.
//
// Usage:
//
//	go run ./example/cmd/mocknode
//
// Then in another terminal:
//
//	go run ./cmd/fleetpulse poll -c example/config.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpalmerr/fleetpulse/internal/mocknode"
)

const firstPort = 14002

func main() {
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	nodes := make([]*mocknode.Node, 4)
	for i := range nodes {
		nodes[i] = mocknode.Random(rng)
	}
	// the last node is too slow for the default 10s timeout
	nodes[3].Faults = map[string]mocknode.Fault{
		mocknode.RouteSatellites: {Delay: 30 * time.Second},
	}

	fmt.Printf("Mock storage nodes starting on :%d-:%d\n", firstPort, firstPort+len(nodes)-1)
	fmt.Printf("Node :%d never answers %s in time\n", firstPort+len(nodes)-1, mocknode.RouteSatellites)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for i, n := range nodes {
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", firstPort+i),
			Handler:           n.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("node %s: %w", srv.Addr, err)
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
