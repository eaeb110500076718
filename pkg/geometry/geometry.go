// Package geometry provides the planar helpers used to keep the car on the
// drawn road network: canvas scaling, point/segment distance and the
// containment tests for segments, node boxes and the movement arena.
package geometry

import "math"

// degenerateEpsilon is the squared segment length below which a segment is
// treated as a single point.
const degenerateEpsilon = 1e-12

// ScaleToCanvas maps positions into [margin, dimension-margin] per axis.
//
// The scale reference is the largest coordinate on each axis, not the span of
// the bounding box, so a layout whose minimum is far from zero keeps its
// offset. An axis whose maximum is not positive is only translated by margin.
func ScaleToCanvas[K comparable](positions map[K]Position, width, height, margin float64) map[K]Position {
	scaled := make(map[K]Position, len(positions))
	if len(positions) == 0 {
		return scaled
	}

	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, pos := range positions {
		maxX = math.Max(maxX, pos.X)
		maxY = math.Max(maxY, pos.Y)
	}

	scaleX := axisScale(width, margin, maxX)
	scaleY := axisScale(height, margin, maxY)

	for id, pos := range positions {
		scaled[id] = Position{
			X: pos.X*scaleX + margin,
			Y: pos.Y*scaleY + margin,
		}
	}
	return scaled
}

func axisScale(dimension, margin, maxValue float64) float64 {
	if maxValue <= 0 {
		return 1
	}
	return (dimension - 2*margin) / maxValue
}

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. For a zero-length segment it returns the distance
// from p to a.
func DistanceToLine(p, a, b Position) float64 {
	d := b.Sub(a)
	lengthSq := d.Dot(d)
	if lengthSq < degenerateEpsilon {
		return Distance(p, a)
	}
	cross := d.Y*p.X - d.X*p.Y + b.X*a.Y - b.Y*a.X
	return math.Abs(cross) / math.Sqrt(lengthSq)
}

// IsPointOnSegment reports whether p lies within tolerance of the line
// through a and b and inside the segment's axis-aligned bounding box.
// A zero-length segment contains every point within tolerance of a.
func IsPointOnSegment(p, a, b Position, tolerance float64) bool {
	d := b.Sub(a)
	if d.Dot(d) < degenerateEpsilon {
		return Distance(p, a) <= tolerance
	}
	if DistanceToLine(p, a, b) > tolerance {
		return false
	}
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// IsInsideNode reports whether p lies within radius of any center, measured
// as box distance.
func IsInsideNode(p Position, centers []Position, radius float64) bool {
	for _, c := range centers {
		if ChebyshevDistance(p, c) <= radius {
			return true
		}
	}
	return false
}

// IsWithinBounds reports whether p lies in [0, maxX] x [0, maxY].
func IsWithinBounds(p Position, maxX, maxY float64) bool {
	return p.X >= 0 && p.X <= maxX && p.Y >= 0 && p.Y <= maxY
}
