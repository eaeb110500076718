package geometry

import "math"

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both components by k
func (p Position) Scale(k float64) Position {
	return Position{X: p.X * k, Y: p.Y * k}
}

// Dot returns the dot product of p and q
func (p Position) Dot(q Position) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Distance returns the Euclidean distance between two points
func Distance(p, q Position) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// ChebyshevDistance returns the box distance between two points, the larger
// of the per-axis distances.
func ChebyshevDistance(p, q Position) float64 {
	return math.Max(math.Abs(p.X-q.X), math.Abs(p.Y-q.Y))
}
