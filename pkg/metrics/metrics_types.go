package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry holds all metrics for a simulation run
type Registry struct {
	// Movement Metrics
	MovesTotal    *prometheus.CounterVec
	ArrivalsTotal prometheus.Counter

	// Accrual Metrics
	TicksTotal                  prometheus.Counter
	AnomaliesTotal              prometheus.Counter
	EdgeThresholdCrossingsTotal *prometheus.CounterVec
	CurrentCost                 prometheus.Gauge
	TotalCost                   prometheus.Gauge

	// Graph Metrics
	GraphNodes prometheus.Gauge
	GraphEdges prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initMovementMetrics()
	r.initAccrualMetrics()
	r.initGraphMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Sample is one gathered metric value
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}
