package metrics

// RecordMove counts a movement command by outcome
func (r *Registry) RecordMove(accepted bool) {
	if accepted {
		r.MovesTotal.WithLabelValues("accepted").Inc()
	} else {
		r.MovesTotal.WithLabelValues("rejected").Inc()
	}
}

// RecordTick counts one accrual tick
func (r *Registry) RecordTick() {
	r.TicksTotal.Inc()
}

// RecordArrival counts a traversal ending at a node
func (r *Registry) RecordArrival() {
	r.ArrivalsTotal.Inc()
}

// RecordAnomaly counts an anomaly stop
func (r *Registry) RecordAnomaly() {
	r.AnomaliesTotal.Inc()
}

// RecordThresholdCrossing counts a tick over the threshold on edge
func (r *Registry) RecordThresholdCrossing(edge string) {
	r.EdgeThresholdCrossingsTotal.WithLabelValues(edge).Inc()
}

// SetCosts updates the cost gauges
func (r *Registry) SetCosts(current, total float64) {
	r.CurrentCost.Set(current)
	r.TotalCost.Set(total)
}

// SetGraphSize updates the graph gauges
func (r *Registry) SetGraphSize(nodes, edges int) {
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// Summary gathers every counter and gauge that has a sample, in the
// registry's order: by name, then by label values
func (r *Registry) Summary() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			default:
				continue
			}

			var labels map[string]string
			if len(m.GetLabel()) > 0 {
				labels = make(map[string]string, len(m.GetLabel()))
				for _, lp := range m.GetLabel() {
					labels[lp.GetName()] = lp.GetValue()
				}
			}
			samples = append(samples, Sample{Name: mf.GetName(), Labels: labels, Value: value})
		}
	}
	return samples, nil
}
