package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initMovementMetrics() {
	r.MovesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadsim_moves_total",
			Help: "Total number of movement commands",
		},
		[]string{"result"}, // accepted, rejected
	)

	r.ArrivalsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "roadsim_arrivals_total",
			Help: "Total number of traversals that ended at a node",
		},
	)
}
