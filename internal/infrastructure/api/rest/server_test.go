package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haldorsen/meshsim/internal/domain"
	"github.com/haldorsen/meshsim/internal/engine"
	"github.com/haldorsen/meshsim/internal/infrastructure/ledger"
	"github.com/haldorsen/meshsim/internal/infrastructure/logger"
	"github.com/haldorsen/meshsim/internal/infrastructure/websocket"
)

// twoNodeServer builds a Server around a minimal A->B engine: one group,
// a single edge, three turns of load.
func twoNodeServer(t *testing.T) *Server {
	t.Helper()

	builder := domain.NewGraphBuilder()
	a := builder.AddNode("A", 100, 1)
	b := builder.AddNode("B", 60, 1)
	builder.AddEdge(a, b, 1)
	graph, err := builder.Build()
	require.NoError(t, err)

	groups, err := domain.NewGroupSet([]domain.Group{
		domain.NewGroup("all", []domain.NodeID{a, b}),
	}, graph.NumNodes())
	require.NoError(t, err)

	nodeStates := []domain.NodeState{domain.InitialNodeState(), domain.InitialNodeState()}
	edgeStates := []domain.EdgeState{domain.InitialEdgeState()}
	modifiers := []domain.CapacityModifier{domain.NewCapacityModifier(3)}
	initial := domain.NewSnapshot(0, nodeStates, edgeStates, modifiers)

	sc := staticScenario(t, a)

	eng, err := engine.New(graph, groups, initial, sc)
	require.NoError(t, err)

	hub := websocket.NewHub(logger.Default())
	go hub.Run()

	return NewServer(eng, ledger.NewMemoryLedger(), hub, logger.Default())
}

func staticScenario(t *testing.T, entry domain.NodeID) *scenarioStub {
	t.Helper()
	return &scenarioStub{entry: entry, loads: []float64{10, 20, 30}}
}

// scenarioStub avoids importing internal/scenario just for a fixed table;
// it satisfies the engine.Scenario contract directly.
type scenarioStub struct {
	entry domain.NodeID
	loads []float64
}

func (s *scenarioStub) Load(node domain.NodeID, turn int) float64 {
	if node != s.entry || turn < 0 || turn >= len(s.loads) {
		return 0
	}
	return s.loads[turn]
}

func (s *scenarioStub) EntryNodes() []domain.NodeID { return []domain.NodeID{s.entry} }
func (s *scenarioStub) OpsPerTurn() int             { return 1 }

func doRequest(t *testing.T, srv *Server, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleState_InitialTurn(t *testing.T) {
	srv := twoNodeServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/state")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data StateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 0, body.Data.Turn)
	require.Len(t, body.Data.Nodes, 2)
	require.Equal(t, 1, body.Data.RemainingOps)
}

func TestHandleStep_AdvancesTurnAndAppendsLedger(t *testing.T) {
	srv := twoNodeServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/step")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data StateResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, 1, body.Data.Turn)
	require.Equal(t, float64(10), body.Data.Nodes[0].Served)
	require.Equal(t, float64(0), body.Data.Nodes[1].Served)

	histRec := doRequest(t, srv, http.MethodGet, "/api/v1/history")
	require.Equal(t, http.StatusOK, histRec.Code)

	var hist struct {
		Data []ledger.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(histRec.Body.Bytes(), &hist))
	require.Len(t, hist.Data, 1)
	require.Equal(t, 1, hist.Data[0].Turn)
}

func TestHandleThrottle_InvalidGroupRejected(t *testing.T) {
	srv := twoNodeServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/groups/7/throttle")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleThrottle_SecondApplicationRefusedSilently(t *testing.T) {
	srv := twoNodeServer(t)

	first := doRequest(t, srv, http.MethodPost, "/api/v1/groups/0/throttle")
	require.Equal(t, http.StatusOK, first.Code)

	var firstBody struct {
		Data interventionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstBody))
	require.True(t, firstBody.Data.Applied)
	require.Equal(t, 0, firstBody.Data.RemainingOps)

	second := doRequest(t, srv, http.MethodPost, "/api/v1/groups/0/boost")
	require.Equal(t, http.StatusOK, second.Code)

	var secondBody struct {
		Data interventionResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondBody))
	require.False(t, secondBody.Data.Applied)
}
