package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAccrualMetrics() {
	r.TicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "roadsim_ticks_total",
			Help: "Total number of cost accrual ticks",
		},
	)

	r.AnomaliesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "roadsim_anomalies_total",
			Help: "Total number of times the accrual timer stopped on an anomaly",
		},
	)

	r.EdgeThresholdCrossingsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsim_edge_threshold_crossings_total",
			Help: "Ticks spent on an edge with the current cost at or above the threshold",
		},
		[]string{"edge"},
	)

	r.CurrentCost = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadsim_current_cost",
			Help: "Cost accrued since the car last reached a node",
		},
	)

	r.TotalCost = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "roadsim_total_cost",
			Help: "Lifetime accrued cost",
		},
	)
}
