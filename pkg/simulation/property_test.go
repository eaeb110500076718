package simulation

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-roadsim/pkg/clock"
	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
)

// command 0-3 is a direction, 4 advances the clock by one tick
const tickCommand = 4

// grid is a small network with a diagonal, a long edge and a loop
func grid() graph.Provider {
	return graph.ProviderFunc(func(ctx context.Context) (map[graph.NodeID]geometry.Position, []graph.Edge, error) {
		return map[graph.NodeID]geometry.Position{
				1: {X: 0, Y: 0},
				2: {X: 100, Y: 0},
				3: {X: 100, Y: 100},
				4: {X: 0, Y: 100},
				5: {X: 500, Y: 0},
			}, []graph.Edge{
				{From: 1, To: 2, Cost: 1},
				{From: 2, To: 3, Cost: 2},
				{From: 3, To: 4, Cost: 3},
				{From: 4, To: 1, Cost: 4},
				{From: 1, To: 3, Cost: 5},
				{From: 2, To: 5, Cost: 6},
			}, nil
	})
}

func newPropertySim(t *testing.T) (*Simulation, *clock.Virtual) {
	vc := clock.NewVirtual(time.Unix(0, 0))
	cfg := testConfig()
	// short threshold so anomalies happen inside generated runs
	cfg.AnomalyThreshold = 1
	sim, err := New(context.Background(), grid(), cfg, WithClock(vc), WithStartNode(1))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return sim, vc
}

var directions = [4]Direction{Up, Down, Left, Right}

// run applies commands and calls check after each one with the state before
// and after, and whether a move was accepted
func run(t *testing.T, commands []int, check func(cmd int, before, after Snapshot, accepted bool) bool) bool {
	sim, vc := newPropertySim(t)
	defer sim.Close()

	for _, cmd := range commands {
		before := sim.Snapshot()
		accepted := false
		if cmd == tickCommand {
			vc.Advance(sim.Config().TickInterval)
		} else {
			_, accepted = sim.ApplyDirection(directions[cmd])
		}
		if !check(cmd, before, sim.Snapshot(), accepted) {
			return false
		}
	}
	return true
}

func TestSimulationProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	commands := gen.SliceOf(gen.IntRange(0, tickCommand))

	properties.Property("rejected moves leave the state unchanged", prop.ForAll(
		func(cmds []int) bool {
			return run(t, cmds, func(cmd int, before, after Snapshot, accepted bool) bool {
				if cmd == tickCommand || accepted {
					return true
				}
				return reflect.DeepEqual(before, after)
			})
		},
		commands,
	))

	properties.Property("total cost never decreases", prop.ForAll(
		func(cmds []int) bool {
			return run(t, cmds, func(_ int, before, after Snapshot, _ bool) bool {
				return after.TotalCost >= before.TotalCost
			})
		},
		commands,
	))

	properties.Property("reaching a node clears cost and status", prop.ForAll(
		func(cmds []int) bool {
			return run(t, cmds, func(cmd int, _, after Snapshot, accepted bool) bool {
				if !accepted || after.Phase != AtNode {
					return true
				}
				return after.CurrentCost == 0 && after.Status == StatusNormal && !after.TimerRunning
			})
		},
		commands,
	))

	properties.Property("car stays within bounds and on the network", prop.ForAll(
		func(cmds []int) bool {
			sim, _ := newPropertySim(t)
			defer sim.Close()
			g := sim.Graph()
			cfg := sim.Config()

			return run(t, cmds, func(_ int, _, after Snapshot, _ bool) bool {
				p := after.Position
				return geometry.IsWithinBounds(p, cfg.ArenaMaxX, cfg.ArenaMaxY) &&
					g.IsOnAnyEdge(p, cfg.PathTolerance)
			})
		},
		commands,
	))

	properties.Property("a tick at the threshold flags and stops", prop.ForAll(
		func(cmds []int) bool {
			return run(t, cmds, func(cmd int, _, after Snapshot, _ bool) bool {
				if cmd != tickCommand || after.CurrentCost < 1 {
					return true
				}
				return after.Status == StatusAnomalyDetected && !after.TimerRunning
			})
		},
		commands,
	))

	properties.TestingRun(t)
}
