package simulation

import (
	"github.com/dd0wney/cluso-roadsim/pkg/geometry"
	"github.com/dd0wney/cluso-roadsim/pkg/graph"
	"github.com/dd0wney/cluso-roadsim/pkg/logging"
)

// Reasons a move is rejected
const (
	rejectUnknownDirection = "unknown_direction"
	rejectOutOfBounds      = "out_of_bounds"
	rejectOffPath          = "off_path"
	rejectClosed           = "closed"
)

func (s *Simulation) applyLocked(dir Direction) (Snapshot, bool) {
	step, valid := dir.Vector()
	switch {
	case s.closed:
		return s.rejectLocked(dir, rejectClosed), false
	case !valid:
		return s.rejectLocked(dir, rejectUnknownDirection), false
	}

	candidate := s.agent.Position.Add(step.Scale(s.cfg.StepSize))
	if !geometry.IsWithinBounds(candidate, s.cfg.ArenaMaxX, s.cfg.ArenaMaxY) {
		return s.rejectLocked(dir, rejectOutOfBounds), false
	}
	containing := s.graph.EdgesContaining(candidate, s.cfg.PathTolerance)
	if len(containing) == 0 {
		return s.rejectLocked(dir, rejectOffPath), false
	}

	s.agent.Position = candidate
	if id, ok := s.graph.NodeWithin(candidate, s.cfg.NodeTolerance); ok {
		s.arriveLocked(id)
	} else {
		s.phase = InTransit
		s.acquireTargetLocked(step, containing)
		if s.agent.HasTarget && s.agent.Target != s.agent.CurrentNode {
			s.scheduler.Start()
		}
	}

	s.recorder.RecordMove(true)
	s.recorder.SetCosts(s.agent.currentCost, s.agent.totalCost)
	return s.emitLocked(), true
}

func (s *Simulation) rejectLocked(dir Direction, reason string) Snapshot {
	s.recorder.RecordMove(false)
	s.logger.Debug("move rejected",
		logging.Direction(dir.String()),
		logging.String("reason", reason),
		logging.Position(s.agent.Position.X, s.agent.Position.Y))
	return s.snapshotLocked()
}

// arriveLocked settles the car on node id: the traversal ends, its cost is
// cleared and the timer stops.
func (s *Simulation) arriveLocked(id graph.NodeID) {
	wasTransit := s.phase == InTransit

	s.agent.CurrentNode = id
	s.agent.Target = id
	s.agent.HasTarget = true
	s.agent.currentCost = 0
	s.detector.Reset()
	s.scheduler.Stop()
	s.phase = AtNode

	if wasTransit {
		s.recorder.RecordArrival()
		s.logger.Info("arrived at node",
			logging.NodeID(int64(id)),
			logging.TotalCost(s.agent.totalCost))
	}
}

// acquireTargetLocked picks the node the car is heading for. Edges touching
// the current node win over other edges under the car; among their endpoints
// the one furthest along the travel direction is chosen. Ties prefer leaving
// the current node, then the lower ID.
func (s *Simulation) acquireTargetLocked(step geometry.Position, containing []graph.Edge) {
	current := s.agent.CurrentNode

	candidates := make([]graph.Edge, 0, len(containing))
	for _, e := range containing {
		if e.Touches(current) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) == 0 {
		candidates = containing
	}

	var (
		best      graph.NodeID
		bestScore float64
		found     bool
	)
	for _, e := range candidates {
		for _, id := range [2]graph.NodeID{e.From, e.To} {
			node, _ := s.graph.Node(id)
			score := step.Dot(node.Position.Sub(s.agent.Position))
			if !found || better(id, score, best, bestScore, current) {
				best, bestScore, found = id, score, true
			}
		}
	}
	if !found {
		return
	}

	if !s.agent.HasTarget || s.agent.Target != best {
		s.logger.Debug("target acquired",
			logging.NodeID(int64(current)),
			logging.TargetID(int64(best)))
	}
	s.agent.Target = best
	s.agent.HasTarget = true
}

func better(id graph.NodeID, score float64, best graph.NodeID, bestScore float64, current graph.NodeID) bool {
	if score != bestScore {
		return score > bestScore
	}
	if (id == current) != (best == current) {
		return best == current
	}
	return id < best
}
