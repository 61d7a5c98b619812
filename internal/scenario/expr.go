package scenario

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/haldorsen/meshsim/internal/domain"
)

// exprEnv is the variable environment an ExprScenario expression is
// evaluated against.
type exprEnv struct {
	Turn int `expr:"turn"`
}

// ExprScenario generates load from an expr-lang expression per entry
// node, so an operator can shape a load curve ("40 + turn*5",
// "turn < 3 ? 10 : 80") from configuration instead of recompiling a
// StaticScenario table. Programs are compiled once at construction and
// cached.
type ExprScenario struct {
	mu         sync.Mutex
	programs   map[domain.NodeID]*vm.Program
	entryNodes []domain.NodeID
	opsPerTurn int
}

// NewExprScenario compiles one expression per entry node. Returns an
// error immediately if any expression fails to compile — a scenario with
// a broken expression is a construction-time mistake, not a runtime one.
func NewExprScenario(expressions map[domain.NodeID]string, opsPerTurn int) (*ExprScenario, error) {
	programs := make(map[domain.NodeID]*vm.Program, len(expressions))
	entries := make([]domain.NodeID, 0, len(expressions))
	for node, src := range expressions {
		program, err := expr.Compile(src, expr.Env(exprEnv{}), expr.AsFloat64())
		if err != nil {
			return nil, fmt.Errorf("scenario: compiling load expression for node %d: %w", node, err)
		}
		programs[node] = program
		entries = append(entries, node)
	}
	return &ExprScenario{programs: programs, entryNodes: entries, opsPerTurn: opsPerTurn}, nil
}

// Load evaluates the compiled expression for node at turn. A node with
// no registered expression yields zero load, matching StaticScenario's
// treatment of unlisted nodes.
func (s *ExprScenario) Load(node domain.NodeID, turn int) float64 {
	s.mu.Lock()
	program, ok := s.programs[node]
	s.mu.Unlock()
	if !ok {
		return 0
	}

	out, err := expr.Run(program, exprEnv{Turn: turn})
	if err != nil {
		return 0
	}
	v, ok := out.(float64)
	if !ok || v < 0 {
		return 0
	}
	return v
}

// EntryNodes returns the nodes with a registered load expression.
func (s *ExprScenario) EntryNodes() []domain.NodeID { return s.entryNodes }

// OpsPerTurn returns the configured ops budget.
func (s *ExprScenario) OpsPerTurn() int { return s.opsPerTurn }
