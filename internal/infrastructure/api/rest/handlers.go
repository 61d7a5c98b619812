package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/haldorsen/meshsim/internal/analysis"
	"github.com/haldorsen/meshsim/internal/domain"
	"github.com/haldorsen/meshsim/internal/infrastructure/ledger"
	"github.com/haldorsen/meshsim/internal/infrastructure/websocket"
)

// NodeView is one node's wire representation: its immutable topology
// fields alongside its current turn's mutable state.
type NodeView struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Group    string  `json:"group"`
	Capacity float64 `json:"capacity"`
	Gain     float64 `json:"gain"`
	Demand   float64 `json:"demand"`
	Served   float64 `json:"served"`
	Backlog  float64 `json:"backlog"`
	Health   float64 `json:"health"`
	Healthy  bool    `json:"healthy"`
}

// GroupSummaryView is analysis.GroupSummary with its Trend/HealthClass
// enums rendered as their string labels; a JSON wire type needs
// something more useful than a bare int.
type GroupSummaryView struct {
	Name             string    `json:"name"`
	AvgUtilisation   float64   `json:"avg_utilisation"`
	UtilisationTrend string    `json:"utilisation_trend"`
	NodeCount        int       `json:"node_count"`
	RawHealth        float64   `json:"raw_health"`
	HealthClass      string    `json:"health_class"`
	HealthTrend      string    `json:"health_trend"`
	HealthyNodes     int       `json:"healthy_nodes"`
	Pressure         []float64 `json:"pressure"`
}

func toGroupSummaryView(s analysis.GroupSummary) GroupSummaryView {
	return GroupSummaryView{
		Name:             s.Name,
		AvgUtilisation:   s.AvgUtilisation,
		UtilisationTrend: s.UtilisationTrend.String(),
		NodeCount:        s.NodeCount,
		RawHealth:        s.RawHealth,
		HealthClass:      s.HealthClass.String(),
		HealthTrend:      s.HealthTrend.String(),
		HealthyNodes:     s.HealthyNodes,
		Pressure:         s.Pressure,
	}
}

func toGroupSummaryViews(summaries []analysis.GroupSummary) []GroupSummaryView {
	views := make([]GroupSummaryView, len(summaries))
	for i, summary := range summaries {
		views[i] = toGroupSummaryView(summary)
	}
	return views
}

// StateResponse is the payload for GET /api/v1/state and POST /api/v1/step.
type StateResponse struct {
	Turn         int                `json:"turn"`
	Nodes        []NodeView         `json:"nodes"`
	Groups       []GroupSummaryView `json:"groups"`
	RemainingOps int                `json:"remaining_ops"`
}

// buildState snapshots the engine's current state into wire types. Callers
// must already hold s.mu.
func (s *Server) buildState() StateResponse {
	graph := s.engine.Graph()
	groups := s.engine.Groups()
	current := s.engine.CurrentSnapshot()
	previous := s.engine.PreviousSnapshot()

	nodes := make([]NodeView, graph.NumNodes())
	for i := 0; i < graph.NumNodes(); i++ {
		id := domain.NodeID(i)
		node := graph.Node(id)
		state := current.NodeState(id)
		nodes[i] = NodeView{
			ID:       i,
			Name:     node.Name(),
			Group:    groups.Group(groups.GroupOf(id)).Name(),
			Capacity: node.Capacity(),
			Gain:     node.Gain(),
			Demand:   state.Demand,
			Served:   state.Served,
			Backlog:  state.Backlog,
			Health:   state.Health,
			Healthy:  state.Healthy(),
		}
	}

	summaries := analysis.AggregateGroups(current, previous, graph, groups)

	return StateResponse{
		Turn:         current.Turn(),
		Nodes:        nodes,
		Groups:       toGroupSummaryViews(summaries),
		RemainingOps: s.engine.RemainingOps(),
	}
}

// handleState handles GET /api/v1/state: a read-only rollup of the
// current turn, mutating nothing.
func (s *Server) handleState(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(c, http.StatusOK, s.buildState())
}

// handleStep handles POST /api/v1/step: advances the engine exactly one
// turn, appends the resulting summaries to the ledger, and broadcasts
// them to every connected websocket client.
func (s *Server) handleStep(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Step()
	state := s.buildState()

	summaries := analysis.AggregateGroups(s.engine.CurrentSnapshot(), s.engine.PreviousSnapshot(), s.engine.Graph(), s.engine.Groups())
	entry := ledger.Entry{Turn: state.Turn, Summaries: summaries}
	if err := s.ledger.Append(c.Request.Context(), entry); err != nil {
		s.log.Error().Err(err).Int("turn", state.Turn).Msg("failed to append ledger entry")
	}
	s.hub.Broadcast(websocket.NewTurnMessage(state.Turn, summaries))

	respondJSON(c, http.StatusOK, state)
}

// handleGroups handles GET /api/v1/groups: analysis.AggregateGroups only,
// without the full node vector.
func (s *Server) handleGroups(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summaries := analysis.AggregateGroups(s.engine.CurrentSnapshot(), s.engine.PreviousSnapshot(), s.engine.Graph(), s.engine.Groups())
	respondJSON(c, http.StatusOK, toGroupSummaryViews(summaries))
}

// parseGroupID validates the :id path param against the engine's group
// count, writing an error response itself on failure. Callers must
// already hold s.mu.
func (s *Server) parseGroupID(c *gin.Context) (domain.GroupID, bool) {
	n, err := strconv.Atoi(c.Param("id"))
	if err != nil || n < 0 || n >= s.engine.Groups().Len() {
		respondAPIError(c, ErrInvalidGroup)
		return 0, false
	}
	return domain.GroupID(n), true
}

// interventionResponse reports whether an operator action actually
// transitioned a modifier. A false Applied is normal operator feedback,
// not an error.
type interventionResponse struct {
	Applied      bool `json:"applied"`
	RemainingOps int  `json:"remaining_ops"`
}

// handleThrottle handles POST /api/v1/groups/:id/throttle.
func (s *Server) handleThrottle(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.parseGroupID(c)
	if !ok {
		return
	}
	applied := s.engine.TryThrottleGroup(g)
	respondJSON(c, http.StatusOK, interventionResponse{Applied: applied, RemainingOps: s.engine.RemainingOps()})
}

// handleBoost handles POST /api/v1/groups/:id/boost.
func (s *Server) handleBoost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.parseGroupID(c)
	if !ok {
		return
	}
	applied := s.engine.TryBoostGroup(g)
	respondJSON(c, http.StatusOK, interventionResponse{Applied: applied, RemainingOps: s.engine.RemainingOps()})
}

// handleOps handles GET /api/v1/ops: the remaining operator-intervention
// budget for the current turn.
func (s *Server) handleOps(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respondJSON(c, http.StatusOK, gin.H{"remaining_ops": s.engine.RemainingOps()})
}

// handleHistory handles GET /api/v1/history: the ledger's persisted
// turn-by-turn record, supplementing the engine's own two-snapshot
// retention.
func (s *Server) handleHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := s.ledger.Recent(c.Request.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read ledger history")
		respondAPIError(c, ErrInternal)
		return
	}
	respondJSON(c, http.StatusOK, entries)
}
