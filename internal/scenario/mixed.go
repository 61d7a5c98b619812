package scenario

import "github.com/haldorsen/meshsim/internal/domain"

// mixedScenario combines a StaticScenario and an ExprScenario so a single
// scenario file can mix fixed load tables for some entry nodes with
// expr-lang curves for others.
type mixedScenario struct {
	static     *StaticScenario
	expr       *ExprScenario
	entryNodes []domain.NodeID
	opsPerTurn int
}

func newMixedScenario(tables map[domain.NodeID][]float64, expressions map[domain.NodeID]string, opsPerTurn int) (Scenario, error) {
	st := NewStaticScenario(tables, opsPerTurn)
	ex, err := NewExprScenario(expressions, opsPerTurn)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.NodeID, 0, len(tables)+len(expressions))
	entries = append(entries, st.EntryNodes()...)
	entries = append(entries, ex.EntryNodes()...)

	return &mixedScenario{static: st, expr: ex, entryNodes: entries, opsPerTurn: opsPerTurn}, nil
}

// Load dispatches to whichever underlying scenario registered node as an
// entry; a node registered in both is rejected at construction time by
// buildScenario, which routes each entry to exactly one of the two maps.
func (m *mixedScenario) Load(node domain.NodeID, turn int) float64 {
	for _, n := range m.expr.EntryNodes() {
		if n == node {
			return m.expr.Load(node, turn)
		}
	}
	return m.static.Load(node, turn)
}

// EntryNodes returns the union of both underlying scenarios' entry nodes.
func (m *mixedScenario) EntryNodes() []domain.NodeID { return m.entryNodes }

// OpsPerTurn returns the configured ops budget.
func (m *mixedScenario) OpsPerTurn() int { return m.opsPerTurn }
