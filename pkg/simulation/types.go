package simulation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/validation"
)

// ErrInitialization is returned by New when the graph cannot be loaded or
// offers no usable start node
var ErrInitialization = errors.New("simulation initialization failed")

// Direction is a movement command
type Direction int

const (
	DirectionNone Direction = iota
	Up
	Down
	Left
	Right
)

var directionNames = map[string]Direction{
	"up": Up, "k": Up, "w": Up,
	"down": Down, "j": Down, "s": Down,
	"left": Left, "h": Left, "a": Left,
	"right": Right, "l": Right, "d": Right,
}

// ParseDirection maps a key name to a Direction. Arrow names, vim keys and
// WASD are recognised, case-insensitively.
func ParseDirection(key string) (Direction, bool) {
	d, ok := directionNames[strings.ToLower(strings.TrimSpace(key))]
	return d, ok
}

// Vector returns the unit step of the direction in canvas coordinates,
// where Y grows downwards
func (d Direction) Vector() (geometry.Position, bool) {
	switch d {
	case Up:
		return geometry.Position{X: 0, Y: -1}, true
	case Down:
		return geometry.Position{X: 0, Y: 1}, true
	case Left:
		return geometry.Position{X: -1, Y: 0}, true
	case Right:
		return geometry.Position{X: 1, Y: 0}, true
	default:
		return geometry.Position{}, false
	}
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Status is the anomaly state of the run
type Status int

const (
	StatusNormal Status = iota
	StatusAnomalyDetected
)

func (s Status) String() string {
	if s == StatusAnomalyDetected {
		return "Anomaly Detected"
	}
	return "Normal"
}

// MarshalText renders the status label in JSON output
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Normal":
		*s = StatusNormal
	case "Anomaly Detected":
		*s = StatusAnomalyDetected
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Phase is the movement state of the car
type Phase int

const (
	AtNode Phase = iota
	InTransit
)

func (p Phase) String() string {
	if p == InTransit {
		return "in_transit"
	}
	return "at_node"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "at_node":
		*p = AtNode
	case "in_transit":
		*p = InTransit
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// AgentState is the car's position and cost bookkeeping. Each accruing tick
// adds Config.CostIncrement to both costs.
type AgentState struct {
	CurrentNode graph.NodeID
	Target      graph.NodeID
	HasTarget   bool
	Position    geometry.Position

	currentCost float64
	totalCost   float64
}

// Snapshot is an immutable copy of the simulation state.
// Nodes and Edges are shared between snapshots and must not be modified.
type Snapshot struct {
	Seq          uint64                `json:"seq"`
	Nodes        []graph.Node          `json:"nodes,omitempty"`
	Edges        []graph.Edge          `json:"edges,omitempty"`
	Position     geometry.Position     `json:"position"`
	CurrentNode  graph.NodeID          `json:"current_node"`
	Target       graph.NodeID          `json:"target"`
	HasTarget    bool                  `json:"has_target"`
	Phase        Phase                 `json:"phase"`
	CurrentCost  float64               `json:"current_cost"`
	TotalCost    float64               `json:"total_cost"`
	Status       Status                `json:"status"`
	StatusText   string                `json:"status_text"`
	TimerRunning bool                  `json:"timer_running"`
	EdgeCounters map[graph.EdgeKey]int `json:"edge_counters,omitempty"`
}

// Config holds the simulation constants. Lengths are canvas units.
type Config struct {
	CanvasWidth      float64       `yaml:"canvas_width" validate:"gt=0"`
	CanvasHeight     float64       `yaml:"canvas_height" validate:"gt=0"`
	CanvasMargin     float64       `yaml:"canvas_margin" validate:"gte=0"`
	ArenaMaxX        float64       `yaml:"arena_max_x" validate:"gt=0"`
	ArenaMaxY        float64       `yaml:"arena_max_y" validate:"gt=0"`
	StepSize         float64       `yaml:"step_size" validate:"gt=0"`
	PathTolerance    float64       `yaml:"path_tolerance" validate:"gte=0"`
	NodeTolerance    float64       `yaml:"node_tolerance" validate:"gte=0"`
	NodeRadius       float64       `yaml:"node_radius" validate:"gte=0"`
	TickInterval     time.Duration `yaml:"tick_interval" validate:"gt=0"`
	CostIncrement    float64       `yaml:"cost_increment" validate:"gt=0"`
	AnomalyThreshold float64       `yaml:"anomaly_threshold" validate:"gt=0"`
	Seed             int64         `yaml:"seed"`
}

// DefaultConfig returns the stock constants: a 600x600 canvas with a 25
// unit margin inside an 800x800 arena, 5 unit steps, a tick every 100ms
// adding 0.1, and an anomaly threshold of 5.
func DefaultConfig() Config {
	return Config{
		CanvasWidth:      600,
		CanvasHeight:     600,
		CanvasMargin:     25,
		ArenaMaxX:        800,
		ArenaMaxY:        800,
		StepSize:         5,
		PathTolerance:    10,
		NodeTolerance:    10,
		NodeRadius:       15,
		TickInterval:     100 * time.Millisecond,
		CostIncrement:    0.1,
		AnomalyThreshold: 5,
		Seed:             1,
	}
}

// Validate checks value ranges and the relations between fields
func (c Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("Simulation").
		PositiveFloat("StepSize", c.StepSize).
		PositiveFloat("CostIncrement", c.CostIncrement).
		PositiveFloat("AnomalyThreshold", c.AnomalyThreshold).
		NonNegativeFloat("PathTolerance", c.PathTolerance).
		NonNegativeFloat("NodeTolerance", c.NodeTolerance).
		NonNegativeFloat("NodeRadius", c.NodeRadius).
		PositiveDuration("TickInterval", c.TickInterval).
		LessThan("CanvasMargin", 2*c.CanvasMargin, c.CanvasWidth).
		LessThan("CanvasMargin", 2*c.CanvasMargin, c.CanvasHeight).
		Validate()
}

// Recorder receives simulation events for metrics
type Recorder interface {
	RecordMove(accepted bool)
	RecordTick()
	RecordArrival()
	RecordAnomaly()
	RecordThresholdCrossing(edge string)
	SetCosts(current, total float64)
	SetGraphSize(nodes, edges int)
}

type nopRecorder struct{}

func (nopRecorder) RecordMove(bool)                {}
func (nopRecorder) RecordTick()                    {}
func (nopRecorder) RecordArrival()                 {}
func (nopRecorder) RecordAnomaly()                 {}
func (nopRecorder) RecordThresholdCrossing(string) {}
func (nopRecorder) SetCosts(float64, float64)      {}
func (nopRecorder) SetGraphSize(int, int)          {}

// Observer is called with every snapshot produced by an accepted move or a
// tick. It runs outside the simulation lock, possibly on a timer goroutine.
type Observer func(Snapshot)
