package geometry

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScaleToCanvas(t *testing.T) {
	positions := map[int]Position{
		1: {X: 0, Y: 0},
		2: {X: 100, Y: 50},
		3: {X: 50, Y: 100},
	}

	scaled := ScaleToCanvas(positions, 600, 600, 25)

	if len(scaled) != 3 {
		t.Fatalf("got %d positions, want 3", len(scaled))
	}
	if want := (Position{X: 25, Y: 25}); scaled[1] != want {
		t.Errorf("scaled[1] = %v, want %v", scaled[1], want)
	}
	if !near(scaled[2].X, 575) || !near(scaled[2].Y, 300) {
		t.Errorf("scaled[2] = %v, want (575, 300)", scaled[2])
	}
	if !near(scaled[3].X, 300) || !near(scaled[3].Y, 575) {
		t.Errorf("scaled[3] = %v, want (300, 575)", scaled[3])
	}
}

func TestScaleToCanvasUsesMaxNotSpan(t *testing.T) {
	// Minimum coordinate is 50, but only the maximum sets the scale.
	positions := map[int]Position{
		1: {X: 50, Y: 50},
		2: {X: 100, Y: 100},
	}

	scaled := ScaleToCanvas(positions, 600, 600, 25)

	if !near(scaled[1].X, 300) {
		t.Errorf("scaled[1].X = %v, want 300", scaled[1].X)
	}
	if !near(scaled[2].X, 575) {
		t.Errorf("scaled[2].X = %v, want 575", scaled[2].X)
	}
}

func TestScaleToCanvasNonPositiveAxis(t *testing.T) {
	positions := map[int]Position{
		1: {X: 0, Y: 10},
		2: {X: 0, Y: 20},
	}

	scaled := ScaleToCanvas(positions, 600, 600, 25)

	if scaled[1].X != 25 || scaled[2].X != 25 {
		t.Errorf("X = %v, %v; want both pinned to the margin", scaled[1].X, scaled[2].X)
	}
	if math.IsNaN(scaled[1].Y) {
		t.Error("Y is NaN")
	}
}

func TestScaleToCanvasEmpty(t *testing.T) {
	if got := ScaleToCanvas(map[int]Position{}, 600, 600, 25); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestIsPointOnSegment(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 100, Y: 0}

	tests := []struct {
		name      string
		p         Position
		tolerance float64
		expected  bool
	}{
		{"on line", Position{X: 50, Y: 0}, 10, true},
		{"outside tolerance", Position{X: 50, Y: 11}, 10, false},
		{"endpoint", Position{X: 100, Y: 0}, 10, true},
		{"beyond end on line", Position{X: 105, Y: 0}, 10, false},
		// A horizontal segment has a zero-height box.
		{"bounding box excludes offset point", Position{X: 50, Y: 5}, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPointOnSegment(tt.p, a, b, tt.tolerance); got != tt.expected {
				t.Errorf("IsPointOnSegment(%v) = %v, want %v", tt.p, got, tt.expected)
			}
		})
	}
}

func TestIsPointOnSegmentDiagonal(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 100, Y: 100}

	if !IsPointOnSegment(Position{X: 50, Y: 55}, a, b, 10) {
		t.Error("(50,55) should be on the diagonal")
	}
	if IsPointOnSegment(Position{X: 30, Y: 50}, a, b, 10) {
		t.Error("(30,50) is too far from the diagonal")
	}
	if IsPointOnSegment(Position{X: -5, Y: 0}, a, b, 10) {
		t.Error("(-5,0) is outside the bounding box")
	}
}

func TestIsPointOnSegmentDegenerate(t *testing.T) {
	seg := Position{X: 10, Y: 10}
	p := Position{X: 10, Y: 13}

	if !IsPointOnSegment(p, seg, seg, 5) {
		t.Error("point within 5 of a degenerate segment should match")
	}
	if IsPointOnSegment(p, seg, seg, 2) {
		t.Error("point 3 away should not match with tolerance 2")
	}
}

func TestDistanceToLine(t *testing.T) {
	a := Position{X: 0, Y: 0}
	b := Position{X: 10, Y: 0}

	if d := DistanceToLine(Position{X: 50, Y: 3}, a, b); !near(d, 3) {
		t.Errorf("distance = %v, want 3", d)
	}
	if d := DistanceToLine(Position{X: 3, Y: 4}, a, a); !near(d, 5) {
		t.Errorf("degenerate distance = %v, want 5", d)
	}
}

func TestIsInsideNode(t *testing.T) {
	centers := []Position{{X: 100, Y: 100}, {X: 300, Y: 300}}

	if !IsInsideNode(Position{X: 115, Y: 85}, centers, 15) {
		t.Error("(115,85) should be inside the first box")
	}
	// Box distance, not Euclidean: the corner is inside.
	if !IsInsideNode(Position{X: 314, Y: 314}, centers, 15) {
		t.Error("(314,314) should be inside the second box")
	}
	if IsInsideNode(Position{X: 116, Y: 100}, centers, 15) {
		t.Error("(116,100) should be outside")
	}
	if IsInsideNode(Position{X: 0, Y: 0}, nil, 15) {
		t.Error("no centers means never inside")
	}
}

func TestIsWithinBounds(t *testing.T) {
	tests := []struct {
		p    Position
		want bool
	}{
		{Position{X: 0, Y: 0}, true},
		{Position{X: 800, Y: 800}, true},
		{Position{X: -0.5, Y: 10}, false},
		{Position{X: 10, Y: 800.5}, false},
	}
	for _, tt := range tests {
		if got := IsWithinBounds(tt.p, 800, 800); got != tt.want {
			t.Errorf("IsWithinBounds(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestChebyshevDistance(t *testing.T) {
	a, b := Position{X: 1, Y: 1}, Position{X: 4, Y: 5}
	if d := ChebyshevDistance(a, b); d != 4 {
		t.Errorf("ChebyshevDistance = %v, want 4", d)
	}
	if d := Distance(a, b); d != 5 {
		t.Errorf("Distance = %v, want 5", d)
	}
}

// TestScalingRoundTrip checks that every scaled node is inside its own box
// for any non-negative radius.
func TestScalingRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("scaled node is inside itself", prop.ForAll(
		func(xs []float64, radius float64) bool {
			positions := make(map[int]Position, len(xs))
			for i, x := range xs {
				positions[i] = Position{X: x, Y: xs[len(xs)-1-i]}
			}
			scaled := ScaleToCanvas(positions, 600, 600, 25)
			for _, pos := range scaled {
				if !IsInsideNode(pos, []Position{pos}, radius) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
		gen.Float64Range(0, 50),
	))

	properties.Property("scaled coordinates stay within the canvas", prop.ForAll(
		func(xs []float64) bool {
			positions := make(map[int]Position, len(xs))
			for i, x := range xs {
				positions[i] = Position{X: x, Y: x / 2}
			}
			for _, pos := range ScaleToCanvas(positions, 600, 400, 25) {
				if pos.X < 25-1e-9 || pos.X > 575+1e-9 || pos.Y < 25-1e-9 || pos.Y > 375+1e-9 {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Float64Range(0, 1000)),
	))

	properties.TestingRun(t)
}
