// Package graph holds the immutable road network the car drives on.
//
// A Graph is built once from a provider's node positions and edge list and is
// never mutated afterwards; rescaling produces a new Graph. Edges are
// undirected for every lookup, and parallel edges between the same pair are
// kept in insertion order.
package graph

import (
	"math"
	"sort"

	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
)

// Graph is an immutable set of positioned nodes and undirected edges
type Graph struct {
	positions map[NodeID]geometry.Position
	order     []NodeID // node IDs, ascending
	edges     []Edge
	incident  map[NodeID][]int // node -> indices into edges
}

// New validates nodes and edges and builds a Graph.
// An empty node set, an edge endpoint missing from the node set, or a
// negative or non-finite cost is rejected.
func New(nodes map[NodeID]geometry.Position, edges []Edge) (*Graph, error) {
	if len(nodes) == 0 {
		return nil, NewError("New").Entity("graph").Cause(ErrEmptyGraph).Err()
	}

	g := &Graph{
		positions: make(map[NodeID]geometry.Position, len(nodes)),
		order:     make([]NodeID, 0, len(nodes)),
		edges:     make([]Edge, len(edges)),
		incident:  make(map[NodeID][]int),
	}

	for id, pos := range nodes {
		if math.IsNaN(pos.X) || math.IsNaN(pos.Y) || math.IsInf(pos.X, 0) || math.IsInf(pos.Y, 0) {
			return nil, NewError("New").Node(id).Context("non-finite position").Cause(ErrMalformed).Err()
		}
		g.positions[id] = pos
		g.order = append(g.order, id)
	}
	sort.Slice(g.order, func(i, j int) bool { return g.order[i] < g.order[j] })

	copy(g.edges, edges)
	for i, e := range g.edges {
		if _, ok := g.positions[e.From]; !ok {
			return nil, UnknownNodeError("New", i, e.From)
		}
		if _, ok := g.positions[e.To]; !ok {
			return nil, UnknownNodeError("New", i, e.To)
		}
		if e.Cost < 0 || math.IsNaN(e.Cost) || math.IsInf(e.Cost, 0) {
			return nil, NewError("New").Edge(i).Cause(ErrInvalidCost).Err()
		}
		g.incident[e.From] = append(g.incident[e.From], i)
		if e.To != e.From {
			g.incident[e.To] = append(g.incident[e.To], i)
		}
	}

	return g, nil
}

// WithPositions returns a new Graph with the same edges and replaced node
// coordinates. Every existing node must be present in positions.
func (g *Graph) WithPositions(positions map[NodeID]geometry.Position) (*Graph, error) {
	nodes := make(map[NodeID]geometry.Position, len(g.positions))
	for _, id := range g.order {
		pos, ok := positions[id]
		if !ok {
			return nil, NewError("WithPositions").Node(id).Cause(ErrUnknownNode).Err()
		}
		nodes[id] = pos
	}
	return New(nodes, g.edges)
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.order)
}

// EdgeCount returns the number of edges, parallel edges included
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all nodes ordered by ID
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, len(g.order))
	for i, id := range g.order {
		nodes[i] = Node{ID: id, Position: g.positions[id]}
	}
	return nodes
}

// NodeIDs returns all node IDs in ascending order
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, len(g.order))
	copy(ids, g.order)
	return ids
}

// Node returns the node with the given ID
func (g *Graph) Node(id NodeID) (Node, bool) {
	pos, ok := g.positions[id]
	if !ok {
		return Node{}, false
	}
	return Node{ID: id, Position: pos}, true
}

// Positions returns a copy of the node coordinates
func (g *Graph) Positions() map[NodeID]geometry.Position {
	positions := make(map[NodeID]geometry.Position, len(g.positions))
	for id, pos := range g.positions {
		positions[id] = pos
	}
	return positions
}

// Centers returns the node coordinates ordered by node ID
func (g *Graph) Centers() []geometry.Position {
	centers := make([]geometry.Position, len(g.order))
	for i, id := range g.order {
		centers[i] = g.positions[id]
	}
	return centers
}

// Edges returns all edges in insertion order
func (g *Graph) Edges() []Edge {
	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)
	return edges
}

// IncidentEdges returns the edges touching id in insertion order
func (g *Graph) IncidentEdges(id NodeID) []Edge {
	indices := g.incident[id]
	edges := make([]Edge, len(indices))
	for i, idx := range indices {
		edges[i] = g.edges[idx]
	}
	return edges
}

// Neighbors returns the IDs reachable from id over one edge, ascending and
// without duplicates. A self-loop lists id itself.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	seen := make(map[NodeID]struct{})
	neighbors := make([]NodeID, 0, len(g.incident[id]))
	for _, idx := range g.incident[id] {
		other := g.edges[idx].Other(id)
		if _, dup := seen[other]; dup {
			continue
		}
		seen[other] = struct{}{}
		neighbors = append(neighbors, other)
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	return neighbors
}

// FindEdge returns the first edge, in insertion order, joining a and b in
// either direction.
func (g *Graph) FindEdge(a, b NodeID) (Edge, bool) {
	for _, idx := range g.incident[a] {
		e := g.edges[idx]
		if (e.From == a && e.To == b) || (e.From == b && e.To == a) {
			return e, true
		}
	}
	return Edge{}, false
}

// Segment returns the endpoint coordinates of e
func (g *Graph) Segment(e Edge) (geometry.Position, geometry.Position) {
	return g.positions[e.From], g.positions[e.To]
}

// EdgesContaining returns the edges whose segment contains p within tolerance
func (g *Graph) EdgesContaining(p geometry.Position, tolerance float64) []Edge {
	var found []Edge
	for _, e := range g.edges {
		a, b := g.Segment(e)
		if geometry.IsPointOnSegment(p, a, b, tolerance) {
			found = append(found, e)
		}
	}
	return found
}

// IsOnAnyEdge reports whether p lies on any edge segment within tolerance
func (g *Graph) IsOnAnyEdge(p geometry.Position, tolerance float64) bool {
	for _, e := range g.edges {
		a, b := g.Segment(e)
		if geometry.IsPointOnSegment(p, a, b, tolerance) {
			return true
		}
	}
	return false
}

// NodeWithin returns the node closest to p by box distance, provided that
// distance is at most tolerance. Ties go to the lower ID.
func (g *Graph) NodeWithin(p geometry.Position, tolerance float64) (NodeID, bool) {
	var (
		best     NodeID
		bestDist = math.Inf(1)
		found    bool
	)
	for _, id := range g.order {
		d := geometry.ChebyshevDistance(p, g.positions[id])
		if d <= tolerance && d < bestDist {
			best, bestDist, found = id, d, true
		}
	}
	return best, found
}
