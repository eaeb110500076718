package graph

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
)

// NodeID identifies a node
type NodeID int64

// Node is a fixed point of the road network
type Node struct {
	ID       NodeID            `json:"id"`
	Position geometry.Position `json:"position"`
}

// Edge is an undirected weighted connection between two nodes
type Edge struct {
	From NodeID  `json:"from"`
	To   NodeID  `json:"to"`
	Cost float64 `json:"cost"`
}

// EdgeKey is the unordered node pair of an edge, normalized so A <= B
type EdgeKey struct {
	A NodeID
	B NodeID
}

// KeyOf returns the normalized key for the pair (a, b)
func KeyOf(a, b NodeID) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Key returns the edge's unordered key
func (e Edge) Key() EdgeKey {
	return KeyOf(e.From, e.To)
}

// Other returns the endpoint opposite to id
func (e Edge) Other(id NodeID) NodeID {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Touches reports whether id is one of the edge's endpoints
func (e Edge) Touches(id NodeID) bool {
	return e.From == id || e.To == id
}

// String renders the key as "a-b"
func (k EdgeKey) String() string {
	return fmt.Sprintf("%d-%d", k.A, k.B)
}

// MarshalText lets EdgeKey serve as a JSON object key
func (k EdgeKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses "a-b". The separator is the first '-' after the
// leading character, so negative IDs round-trip.
func (k *EdgeKey) UnmarshalText(text []byte) error {
	s := string(text)
	sep := -1
	if len(s) > 1 {
		if i := strings.IndexByte(s[1:], '-'); i >= 0 {
			sep = i + 1
		}
	}
	if sep < 0 {
		return fmt.Errorf("%w: edge key %q", ErrMalformed, s)
	}
	a, errA := strconv.ParseInt(s[:sep], 10, 64)
	b, errB := strconv.ParseInt(s[sep+1:], 10, 64)
	if errA != nil || errB != nil {
		return fmt.Errorf("%w: edge key %q", ErrMalformed, s)
	}
	*k = KeyOf(NodeID(a), NodeID(b))
	return nil
}

// Provider supplies the raw node positions and edge list of a graph.
// Where the data comes from is up to the implementation.
type Provider interface {
	LoadGraph(ctx context.Context) (map[NodeID]geometry.Position, []Edge, error)
}

// ProviderFunc adapts a function to the Provider interface
type ProviderFunc func(ctx context.Context) (map[NodeID]geometry.Position, []Edge, error)

// LoadGraph calls f(ctx)
func (f ProviderFunc) LoadGraph(ctx context.Context) (map[NodeID]geometry.Position, []Edge, error) {
	return f(ctx)
}
