package simulation

import "github.com/dd0wney/cluso-roadsim/pkg/graph"

func (s *Simulation) snapshotLocked() Snapshot {
	status := s.detector.Status()
	return Snapshot{
		Seq:          s.seq,
		Nodes:        s.nodes,
		Edges:        s.edges,
		Position:     s.agent.Position,
		CurrentNode:  s.agent.CurrentNode,
		Target:       s.agent.Target,
		HasTarget:    s.agent.HasTarget,
		Phase:        s.phase,
		CurrentCost:  s.agent.currentCost,
		TotalCost:    s.agent.totalCost,
		Status:       status,
		StatusText:   status.String(),
		TimerRunning: s.scheduler.Running(),
		EdgeCounters: s.detector.Counters(),
	}
}

// Compact returns a copy without the graph, for line-oriented output
func (snap Snapshot) Compact() Snapshot {
	snap.Nodes = nil
	snap.Edges = nil
	return snap
}

// EdgeCount returns the counter for the edge between a and b, in either order
func (snap Snapshot) EdgeCount(a, b graph.NodeID) int {
	return snap.EdgeCounters[graph.KeyOf(a, b)]
}
