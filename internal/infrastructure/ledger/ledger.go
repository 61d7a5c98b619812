// Package ledger persists one record per turn of aggregated group
// summaries, giving the operator-facing surfaces (REST, websocket) a
// history to query beyond the engine's own two-snapshot window.
package ledger

import (
	"context"

	"github.com/haldorsen/meshsim/internal/analysis"
)

// Entry is one turn's persisted rollup.
type Entry struct {
	Turn      int
	Summaries []analysis.GroupSummary
}

// Ledger records and replays turn history. The engine itself never
// depends on this — persistence is purely an operator-facing addition
// layered on top of the core's own current/previous pair.
type Ledger interface {
	Append(ctx context.Context, entry Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close() error
}
