// Package scenario defines the external load-source contract the engine
// consumes each turn, plus two exported implementations: a fixed-table
// scenario used heavily in tests, and an expr-lang-driven scenario that
// lets an operator shape load curves from configuration instead of code.
// An unexported third one combines the two for scenario files that use
// both kinds of entry.
package scenario

import "github.com/haldorsen/meshsim/internal/domain"

// Scenario is the external collaborator that injects demand into entry
// nodes every turn. Implementations must be pure and deterministic: the
// same (node, turn) pair must always return the same value, with no
// hidden randomness or wall-clock reads.
type Scenario interface {
	// Load returns the externally injected demand for node at the given
	// turn. Must be >= 0.
	Load(node domain.NodeID, turn int) float64

	// EntryNodes returns the set of nodes that receive external load.
	// Treated as a set; order is not significant.
	EntryNodes() []domain.NodeID

	// OpsPerTurn returns how many operator interventions (throttle/boost)
	// are allowed per turn.
	OpsPerTurn() int
}
