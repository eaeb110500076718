package simulation

import "github.com/dd0wney/cluso-roadsim/pkg/graph"

// AnomalyDetector tracks how often each edge was traversed with the current
// cost at or above the threshold, and the resulting status.
// It is not safe for concurrent use; Simulation guards it.
type AnomalyDetector struct {
	threshold float64
	counters  map[graph.EdgeKey]int
	status    Status
}

// NewAnomalyDetector creates a detector in the Normal state
func NewAnomalyDetector(threshold float64) *AnomalyDetector {
	return &AnomalyDetector{
		threshold: threshold,
		counters:  make(map[graph.EdgeKey]int),
	}
}

// Record increments the counter of edge and returns the new value
func (d *AnomalyDetector) Record(edge graph.EdgeKey) int {
	d.counters[edge]++
	return d.counters[edge]
}

// CheckAnomaly sets the status from the edge's counter: AnomalyDetected once
// the counter exceeds the threshold, Normal otherwise.
func (d *AnomalyDetector) CheckAnomaly(edge graph.EdgeKey) Status {
	if float64(d.counters[edge]) > d.threshold {
		d.status = StatusAnomalyDetected
	} else {
		d.status = StatusNormal
	}
	return d.status
}

// Flag forces the AnomalyDetected status
func (d *AnomalyDetector) Flag() {
	d.status = StatusAnomalyDetected
}

// Reset returns the status to Normal. Counters are kept.
func (d *AnomalyDetector) Reset() {
	d.status = StatusNormal
}

func (d *AnomalyDetector) Status() Status {
	return d.status
}

// Count returns the counter of edge
func (d *AnomalyDetector) Count(edge graph.EdgeKey) int {
	return d.counters[edge]
}

// Counters returns a copy of every non-zero counter, or nil if there are none
func (d *AnomalyDetector) Counters() map[graph.EdgeKey]int {
	if len(d.counters) == 0 {
		return nil
	}
	counters := make(map[graph.EdgeKey]int, len(d.counters))
	for k, v := range d.counters {
		counters[k] = v
	}
	return counters
}
