// Package config loads roadsim settings from a YAML file and ROADSIM_*
// environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
	"github.com/dd0wney/cluso-roadsim/pkg/provider"
	"github.com/dd0wney/cluso-roadsim/pkg/simulation"
	"github.com/dd0wney/cluso-roadsim/pkg/validation"
)

// Graph sources
const (
	SourceRandom = "random"
	SourceCSV    = "csv"
)

// Config is the complete run configuration
type Config struct {
	Simulation simulation.Config `yaml:"simulation"`
	Graph      GraphConfig       `yaml:"graph"`
	LogLevel   string            `yaml:"log_level"`
	LogFile    string            `yaml:"log_file"`
}

// GraphConfig selects and parameterises the graph provider
type GraphConfig struct {
	Source     string `yaml:"source" validate:"oneof=random csv"`
	Path       string `yaml:"path" validate:"required_if=Source csv"`
	SampleSize int    `yaml:"sample_size" validate:"gte=0"`
	Nodes      int    `yaml:"nodes" validate:"gte=0"`
	MaxCoord   int    `yaml:"max_coord" validate:"gte=0"`
	Seed       int64  `yaml:"seed"`
}

// Default returns the stock configuration: a 40 node random graph
func Default() Config {
	return Config{
		Simulation: simulation.DefaultConfig(),
		Graph: GraphConfig{
			Source:   SourceRandom,
			Nodes:    provider.DefaultRandomNodes,
			MaxCoord: provider.DefaultMaxCoord,
			Seed:     1,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults (skipped when path is empty), applies
// the process environment and validates the result
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from ROADSIM_* variables found by lookup
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.str("ROADSIM_GRAPH_SOURCE", &c.Graph.Source)
	env.str("ROADSIM_GRAPH_PATH", &c.Graph.Path)
	env.integer("ROADSIM_SAMPLE_SIZE", &c.Graph.SampleSize)
	env.integer("ROADSIM_NODES", &c.Graph.Nodes)
	if v, ok := env.int64("ROADSIM_SEED"); ok {
		c.Graph.Seed = v
		c.Simulation.Seed = v
	}
	env.str("ROADSIM_LOG_LEVEL", &c.LogLevel)
	env.str("ROADSIM_LOG_FILE", &c.LogFile)
	env.float("ROADSIM_STEP_SIZE", &c.Simulation.StepSize)
	env.float("ROADSIM_COST_INCREMENT", &c.Simulation.CostIncrement)
	env.float("ROADSIM_ANOMALY_THRESHOLD", &c.Simulation.AnomalyThreshold)
	env.duration("ROADSIM_TICK_INTERVAL", &c.Simulation.TickInterval)

	return errors.Join(env.errs...)
}

// Validate checks the graph settings and the simulation constants
func (c Config) Validate() error {
	if err := validation.ValidateStruct(c.Graph); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	err := validation.NewConfigValidator("Config").
		OneOf("LogLevel", strings.ToLower(c.LogLevel), []string{"debug", "info", "warn", "warning", "error"}).
		When(c.Graph.Source == SourceRandom, func(cv *validation.ConfigValidator) {
			cv.Positive("Graph.Nodes", c.Graph.Nodes)
		}).
		Custom("Simulation", c.Simulation.Validate).
		Validate()
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Level returns the parsed log level
func (c Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Provider builds the graph provider the config selects
func (g GraphConfig) Provider(logger logging.Logger) graph.Provider {
	if g.Source == SourceCSV {
		return provider.CSV{Path: g.Path, SampleSize: g.SampleSize, Seed: g.Seed, Logger: logger}
	}
	return provider.Random{Nodes: g.Nodes, Seed: g.Seed, MaxCoord: g.MaxCoord}
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) fail(key, value string, err error) {
	e.errs = append(e.errs, fmt.Errorf("invalid %s=%q: %w", key, value, err))
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) integer(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = n
}

func (e *envReader) int64(key string) (int64, bool) {
	v, ok := e.get(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		e.fail(key, v, err)
		return 0, false
	}
	return n, true
}

func (e *envReader) float(key string, dst *float64) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = f
}

func (e *envReader) duration(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(key, v, err)
		return
	}
	*dst = d
}
