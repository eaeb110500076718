// Package simulation moves a car along the edges of a road graph, accrues
// travel cost on a timer while the car is between nodes, and flags an anomaly
// when a traversal costs too much.
//
// A Simulation is the single owner of all run state. Every operation,
// including timer ticks, runs under one mutex, so moves and ticks never
// interleave. Observers are notified after the mutex is released.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/dd0wney/cluso-roadsim/pkg/clock"
	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
)

// Simulation is one car on one graph
type Simulation struct {
	mu sync.Mutex

	cfg     Config
	graph   *graph.Graph
	nodes   []graph.Node
	edges   []graph.Edge
	centers []geometry.Position

	agent     AgentState
	phase     Phase
	detector  *AnomalyDetector
	scheduler *clock.Scheduler

	logger    logging.Logger
	recorder  Recorder
	observers []Observer
	pending   []Snapshot
	seq       uint64
	closed    bool
}

// New loads the graph from provider, scales it onto the canvas and places
// the car on a start node that has at least one edge. Any failure is
// reported wrapped in ErrInitialization.
func New(ctx context.Context, provider graph.Provider, cfg Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.clock == nil {
		o.clock = clock.NewReal()
	}
	if o.logger == nil {
		o.logger = logging.NewNopLogger()
	}
	if o.recorder == nil {
		o.recorder = nopRecorder{}
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewSource(cfg.Seed))
	}

	timer := logging.StartTimer(o.logger, "graph loaded")
	g, err := loadGraph(ctx, provider, cfg)
	if err != nil {
		timer.EndError(err)
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	timer.End(logging.Int("nodes", g.NodeCount()), logging.Int("edges", g.EdgeCount()))

	start, err := pickStart(g, o.start, o.rand)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	startNode, _ := g.Node(start)

	s := &Simulation{
		cfg:       cfg,
		graph:     g,
		nodes:     g.Nodes(),
		edges:     g.Edges(),
		centers:   g.Centers(),
		agent:     AgentState{CurrentNode: start, Position: startNode.Position},
		phase:     AtNode,
		detector:  NewAnomalyDetector(cfg.AnomalyThreshold),
		logger:    o.logger,
		recorder:  o.recorder,
		observers: o.observers,
	}
	s.scheduler = clock.NewScheduler(o.clock, cfg.TickInterval, s.tick, clock.WithSerializer(s.serialize))

	s.recorder.SetGraphSize(g.NodeCount(), g.EdgeCount())
	s.recorder.SetCosts(0, 0)
	s.logger.Info("simulation ready",
		logging.NodeID(int64(start)),
		logging.Position(startNode.Position.X, startNode.Position.Y),
		logging.Duration("tick_interval", cfg.TickInterval))

	return s, nil
}

func loadGraph(ctx context.Context, provider graph.Provider, cfg Config) (*graph.Graph, error) {
	nodes, edges, err := provider.LoadGraph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	raw, err := graph.New(nodes, edges)
	if err != nil {
		return nil, err
	}
	scaled := geometry.ScaleToCanvas(raw.Positions(), cfg.CanvasWidth, cfg.CanvasHeight, cfg.CanvasMargin)
	return raw.WithPositions(scaled)
}

func pickStart(g *graph.Graph, requested *graph.NodeID, rnd *rand.Rand) (graph.NodeID, error) {
	if requested != nil {
		if _, ok := g.Node(*requested); !ok {
			return 0, graph.NewError("pickStart").Node(*requested).Cause(graph.ErrUnknownNode).Err()
		}
		if len(g.IncidentEdges(*requested)) == 0 {
			return 0, graph.NewError("pickStart").Node(*requested).Cause(graph.ErrNoIncidentEdge).Err()
		}
		return *requested, nil
	}

	var candidates []graph.NodeID
	for _, id := range g.NodeIDs() {
		if len(g.IncidentEdges(id)) > 0 {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0, graph.NewError("pickStart").Entity("graph").Cause(graph.ErrNoIncidentEdge).Err()
	}
	return candidates[rnd.Intn(len(candidates))], nil
}

// ApplyDirection moves the car one step. It returns the resulting snapshot
// and whether the move was accepted; a rejected move changes nothing.
func (s *Simulation) ApplyDirection(dir Direction) (Snapshot, bool) {
	s.mu.Lock()
	snap, ok := s.applyLocked(dir)
	pending := s.drainLocked()
	s.mu.Unlock()

	s.notify(pending)
	return snap, ok
}

// Tick runs one accrual tick immediately, regardless of the timer
func (s *Simulation) Tick() Snapshot {
	s.mu.Lock()
	if s.closed {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap
	}
	s.scheduler.Tick()
	snap := s.snapshotLocked()
	pending := s.drainLocked()
	s.mu.Unlock()

	s.notify(pending)
	return snap
}

// Snapshot returns the current state
func (s *Simulation) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Phase reports whether the car is resting on a node or between nodes
func (s *Simulation) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// TimerRunning reports whether the accrual timer is armed
func (s *Simulation) TimerRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scheduler.Running()
}

// Graph returns the scaled graph
func (s *Simulation) Graph() *graph.Graph {
	return s.graph
}

// Config returns the configuration the simulation was built with
func (s *Simulation) Config() Config {
	return s.cfg
}

// Close stops the accrual timer. Later moves are rejected and ticks ignored.
func (s *Simulation) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.scheduler.Stop()
	s.logger.Debug("simulation closed", logging.TotalCost(s.agent.totalCost))
	return nil
}

// serialize is the scheduler's entry into the critical section
func (s *Simulation) serialize(fn func()) {
	s.mu.Lock()
	fn()
	pending := s.drainLocked()
	s.mu.Unlock()

	s.notify(pending)
}

// emitLocked advances the sequence number and queues the new state for
// observers
func (s *Simulation) emitLocked() Snapshot {
	s.seq++
	snap := s.snapshotLocked()
	if len(s.observers) > 0 {
		s.pending = append(s.pending, snap)
	}
	return snap
}

func (s *Simulation) drainLocked() []Snapshot {
	pending := s.pending
	s.pending = nil
	return pending
}

func (s *Simulation) notify(pending []Snapshot) {
	for _, snap := range pending {
		for _, obs := range s.observers {
			obs(snap)
		}
	}
}
