package logging

import (
	"fmt"
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Simulation field helpers

func Component(name string) Field {
	return String("component", name)
}

func RunID(id string) Field {
	return String("run_id", id)
}

func NodeID(id int64) Field {
	return Int64("node_id", id)
}

func TargetID(id int64) Field {
	return Int64("target_id", id)
}

// Edge renders an unordered node pair as "a-b"
func Edge(a, b int64) Field {
	if b < a {
		a, b = b, a
	}
	return String("edge", fmt.Sprintf("%d-%d", a, b))
}

func Direction(name string) Field {
	return String("direction", name)
}

func Position(x, y float64) Field {
	return Any("position", [2]float64{x, y})
}

func Cost(value float64) Field {
	return Float64("current_cost", value)
}

func TotalCost(value float64) Field {
	return Float64("total_cost", value)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}
