package config

import (
	"log/slog"

	"github.com/jpalmerr/fleetpulse"
)

// BuildOptions converts parsed configuration into SDK options.
//
// The node list is read from NodesFile at this point, so it reflects the
// file as it is when the poll is set up.
func BuildOptions(cfg *Config, logger *slog.Logger) ([]fleetpulse.Option, error) {
	nodes, err := cfg.AllNodes()
	if err != nil {
		return nil, err
	}

	opts := []fleetpulse.Option{
		fleetpulse.WithNodes(nodes...),
		fleetpulse.WithRoutes(cfg.Routes...),
		fleetpulse.WithMaxConcurrent(cfg.MaxConcurrent),
		fleetpulse.WithRequestTimeout(cfg.RequestTimeout.Duration()),
	}
	if logger != nil {
		opts = append(opts, fleetpulse.WithLogger(logger))
	}

	return opts, nil
}
