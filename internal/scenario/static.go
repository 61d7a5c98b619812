package scenario

import "github.com/haldorsen/meshsim/internal/domain"

// StaticScenario serves a fixed, pre-recorded load table per entry node.
// It is the scenario of choice for tests: most propagation cases are
// expressible as a StaticScenario with a short table.
type StaticScenario struct {
	loads      map[domain.NodeID][]float64
	entryNodes []domain.NodeID
	opsPerTurn int
}

// NewStaticScenario builds a StaticScenario from a per-node load table.
// Map iteration order is not guaranteed, so entryNodes fixes the order
// EntryNodes() reports (and therefore, indirectly, any deterministic
// tie-breaking a caller wants to do over it).
func NewStaticScenario(loads map[domain.NodeID][]float64, opsPerTurn int) *StaticScenario {
	entries := make([]domain.NodeID, 0, len(loads))
	for n := range loads {
		entries = append(entries, n)
	}
	return &StaticScenario{loads: loads, entryNodes: entries, opsPerTurn: opsPerTurn}
}

// Load returns the recorded load for node at turn. Turns beyond the
// recorded table length hold at the table's last value, so a short table
// describes a steady-state tail rather than an abrupt drop to zero.
func (s *StaticScenario) Load(node domain.NodeID, turn int) float64 {
	table, ok := s.loads[node]
	if !ok || len(table) == 0 {
		return 0
	}
	if turn < 0 {
		return 0
	}
	if turn >= len(table) {
		return table[len(table)-1]
	}
	return table[turn]
}

// EntryNodes returns every node present in the load table map, including
// any whose table is empty (such a node receives zero load).
func (s *StaticScenario) EntryNodes() []domain.NodeID { return s.entryNodes }

// OpsPerTurn returns the configured ops budget.
func (s *StaticScenario) OpsPerTurn() int { return s.opsPerTurn }
