package simulation

import (
	"math/rand"

	"github.com/dd0wney/cluso-roadsim/pkg/clock"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
)

type options struct {
	clock     clock.Clock
	logger    logging.Logger
	recorder  Recorder
	observers []Observer
	rand      *rand.Rand
	start     *graph.NodeID
}

// Option configures a Simulation
type Option func(*options)

// WithClock sets the clock driving the accrual timer. Defaults to the wall clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(o *options) {
		o.recorder = r
	}
}

// WithObserver adds a snapshot observer
func WithObserver(fn Observer) Option {
	return func(o *options) {
		o.observers = append(o.observers, fn)
	}
}

// WithRand sets the random source used to pick the start node.
// Defaults to one seeded from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithStartNode places the car on id instead of a random node
func WithStartNode(id graph.NodeID) Option {
	return func(o *options) {
		o.start = &id
	}
}
