// Package provider supplies road graphs to the simulation: a synthetic random
// network and PEMS-style edge lists read from CSV.
package provider

import (
	"context"
	"math/rand"

	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/validation"
)

const (
	// DefaultRandomNodes is the node count of a random graph when none is set
	DefaultRandomNodes = 40
	// DefaultMaxCoord bounds random node coordinates
	DefaultMaxCoord = 100

	minRandomCost = 1
	maxRandomCost = 10
)

// Random generates a graph of Nodes nodes at integer coordinates in
// [0, MaxCoord] joined by 2*Nodes edges between uniformly chosen endpoints.
// Costs are uniform in [1, 10). Self-loops and parallel edges are possible.
type Random struct {
	Nodes    int `validate:"gte=0"`
	Seed     int64
	MaxCoord int `validate:"gte=0"`
}

// LoadGraph implements graph.Provider
func (r Random) LoadGraph(ctx context.Context) (map[graph.NodeID]geometry.Position, []graph.Edge, error) {
	if err := validation.ValidateStruct(r); err != nil {
		return nil, nil, graph.NewError("LoadGraph").Entity("random").Cause(err).Err()
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	n := validation.DefaultOr(r.Nodes, DefaultRandomNodes)
	maxCoord := validation.DefaultOr(r.MaxCoord, DefaultMaxCoord)
	rnd := rand.New(rand.NewSource(r.Seed))

	nodes := make(map[graph.NodeID]geometry.Position, n)
	for i := 0; i < n; i++ {
		nodes[graph.NodeID(i)] = geometry.Position{
			X: float64(rnd.Intn(maxCoord + 1)),
			Y: float64(rnd.Intn(maxCoord + 1)),
		}
	}

	edges := make([]graph.Edge, 0, 2*n)
	for i := 0; i < 2*n; i++ {
		edges = append(edges, graph.Edge{
			From: graph.NodeID(rnd.Intn(n)),
			To:   graph.NodeID(rnd.Intn(n)),
			Cost: minRandomCost + rnd.Float64()*(maxRandomCost-minRandomCost),
		})
	}

	return nodes, edges, nil
}
