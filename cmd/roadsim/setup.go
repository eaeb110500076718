package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-roadsim/pkg/clock"
	"github.com/dd0wney/cluso-roadsim/pkg/config"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
	"github.com/dd0wney/cluso-roadsim/pkg/metrics"
	"github.com/dd0wney/cluso-roadsim/pkg/simulation"
)

// runEnv is everything one simulation run owns
type runEnv struct {
	cfg     config.Config
	runID   string
	logger  logging.Logger
	metrics *metrics.Registry
	sim     *simulation.Simulation
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if csvPath, _ := cmd.Flags().GetString("graph"); csvPath != "" {
		cfg.Graph.Source = config.SourceCSV
		cfg.Graph.Path = csvPath
	}
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		cfg.Graph.Seed = seed
		cfg.Simulation.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func startOption(cmd *cobra.Command) []simulation.Option {
	start, _ := cmd.Flags().GetInt64("start")
	if start < 0 {
		return nil
	}
	return []simulation.Option{simulation.WithStartNode(graph.NodeID(start))}
}

// newRun builds a simulation tagged with a fresh run ID
func newRun(ctx context.Context, cfg config.Config, logger logging.Logger, clk clock.Clock, opts ...simulation.Option) (*runEnv, error) {
	runID := uuid.NewString()
	logger = logger.With(logging.RunID(runID))
	reg := metrics.NewRegistry()

	opts = append([]simulation.Option{
		simulation.WithClock(clk),
		simulation.WithLogger(logger.With(logging.Component("simulation"))),
		simulation.WithRecorder(reg),
	}, opts...)

	provider := cfg.Graph.Provider(logger.With(logging.Component("provider")))
	sim, err := simulation.New(ctx, provider, cfg.Simulation, opts...)
	if err != nil {
		logger.Error("simulation setup failed", logging.Error(err))
		return nil, fmt.Errorf("start run: %w", err)
	}

	logger.Info("run started",
		logging.String("source", cfg.Graph.Source),
		logging.Int("nodes", sim.Graph().NodeCount()),
		logging.Int("edges", sim.Graph().EdgeCount()))

	return &runEnv{cfg: cfg, runID: runID, logger: logger, metrics: reg, sim: sim}, nil
}
