package simulation

import (
	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
)

// tick is the accrual timer's task. It runs under the simulation lock and
// returns false once the current cost reaches the anomaly threshold.
func (s *Simulation) tick() bool {
	if s.closed {
		return false
	}
	s.recorder.RecordTick()

	a := &s.agent
	threshold := s.cfg.AnomalyThreshold
	if a.HasTarget && a.CurrentNode != a.Target {
		if !geometry.IsInsideNode(a.Position, s.centers, s.cfg.NodeRadius) {
			a.currentCost += s.cfg.CostIncrement
			a.totalCost += s.cfg.CostIncrement

			if a.currentCost >= threshold {
				if e, ok := s.graph.FindEdge(a.CurrentNode, a.Target); ok {
					key := e.Key()
					n := s.detector.Record(key)
					s.recorder.RecordThresholdCrossing(key.String())
					s.detector.CheckAnomaly(key)
					s.logger.Debug("edge over threshold",
						logging.Edge(int64(key.A), int64(key.B)),
						logging.Count(n))
				}
			}
		}
	} else {
		a.currentCost = 0
	}

	cont := true
	if a.currentCost >= threshold {
		s.detector.Flag()
		s.scheduler.Stop()
		cont = false
		s.recorder.RecordAnomaly()
		s.logger.Info("anomaly detected",
			logging.NodeID(int64(a.CurrentNode)),
			logging.TargetID(int64(a.Target)),
			logging.Cost(a.currentCost),
			logging.Float64("threshold", threshold),
			logging.Uint64("ticks", s.scheduler.Ticks()))
	}

	s.recorder.SetCosts(a.currentCost, a.totalCost)
	s.emitLocked()
	return cont
}
