package websocket

import "github.com/haldorsen/meshsim/internal/analysis"

// TurnMessage is what the hub pushes to every connected client once per
// completed step.
type TurnMessage struct {
	Turn      int                     `json:"turn"`
	Summaries []analysis.GroupSummary `json:"summaries"`
}

// NewTurnMessage builds a TurnMessage for the given turn and summaries.
func NewTurnMessage(turn int, summaries []analysis.GroupSummary) *TurnMessage {
	return &TurnMessage{Turn: turn, Summaries: summaries}
}
