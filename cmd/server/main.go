package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/haldorsen/meshsim/internal/domain"
	"github.com/haldorsen/meshsim/internal/engine"
	"github.com/haldorsen/meshsim/internal/infrastructure/api/rest"
	"github.com/haldorsen/meshsim/internal/infrastructure/config"
	"github.com/haldorsen/meshsim/internal/infrastructure/ledger"
	"github.com/haldorsen/meshsim/internal/infrastructure/logger"
	"github.com/haldorsen/meshsim/internal/infrastructure/websocket"
	"github.com/haldorsen/meshsim/internal/scenario"
)

// modifierLifetimeTurns is how many turns a throttle/boost stays active
// once applied.
const modifierLifetimeTurns = 3

func main() {
	var port = flag.String("port", "", "server port (overrides config)")
	flag.Parse()

	cfg := config.Load()
	if *port != "" {
		cfg.Port = *port
	}

	log := logger.Setup(cfg.LogLevel)
	log.Info().Str("port", cfg.Port).Msg("starting meshsim server")

	graph, groups, sc, err := loadScenario(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load scenario")
	}

	initial := buildInitialSnapshot(graph, groups)

	eng, err := engine.New(graph, groups, initial, sc, engine.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct engine")
	}

	led, err := buildLedger(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize ledger")
	}
	defer led.Close()

	hub := websocket.NewHub(log)
	go hub.Run()

	srv := rest.NewServer(eng, led, hub, log)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	log.Info().
		Str("state", "GET /api/v1/state").
		Str("step", "POST /api/v1/step").
		Str("groups", "GET /api/v1/groups").
		Str("throttle", "POST /api/v1/groups/:id/throttle").
		Str("boost", "POST /api/v1/groups/:id/boost").
		Str("ops", "GET /api/v1/ops").
		Str("history", "GET /api/v1/history").
		Str("websocket", "GET /ws").
		Msg("available endpoints")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	} else {
		log.Info().Msg("server exited gracefully")
	}
}

// buildLedger picks a persistent Postgres-backed ledger when LEDGER_DSN is
// configured, falling back to the in-memory one otherwise.
func buildLedger(cfg *config.Config, log zerolog.Logger) (ledger.Ledger, error) {
	if !cfg.UsesBunLedger() {
		log.Info().Msg("using in-memory ledger")
		return ledger.NewMemoryLedger(), nil
	}

	bunLedger := ledger.NewBunLedger(cfg.LedgerDSN)
	if err := bunLedger.InitSchema(context.Background()); err != nil {
		return nil, err
	}
	log.Info().Msg("using postgres-backed ledger")
	return bunLedger, nil
}

// loadScenario builds the (graph, groups, scenario) triple the engine is
// constructed from: from an operator-authored YAML file when configured,
// or a small built-in demo scenario otherwise so the server always boots.
func loadScenario(cfg *config.Config) (domain.Graph, domain.GroupSet, scenario.Scenario, error) {
	if cfg.ScenarioFile != "" {
		graph, groups, sc, _, err := scenario.LoadFile(cfg.ScenarioFile)
		return graph, groups, sc, err
	}
	return defaultScenario(cfg.OpsPerTurnDefault)
}

// defaultScenario is a small three-node mesh used when no scenario file is
// configured: an entry gateway fanning out into an auth service and a
// billing service, with a load curve that ramps past capacity and back
// down so the health/backlog dynamics are visible within a few turns.
func defaultScenario(opsPerTurn int) (domain.Graph, domain.GroupSet, scenario.Scenario, error) {
	builder := domain.NewGraphBuilder()
	gateway := builder.AddNode("edge-gateway", 100, 1)
	auth := builder.AddNode("auth-service", 80, 1)
	billing := builder.AddNode("billing-service", 60, 1)
	builder.AddEdge(gateway, auth, 2)
	builder.AddEdge(gateway, billing, 1)

	graph, err := builder.Build()
	if err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, err
	}

	groups, err := domain.NewGroupSet([]domain.Group{
		domain.NewGroup("frontdoor", []domain.NodeID{gateway}),
		domain.NewGroup("backend", []domain.NodeID{auth, billing}),
	}, graph.NumNodes())
	if err != nil {
		return domain.Graph{}, domain.GroupSet{}, nil, err
	}

	sc := scenario.NewStaticScenario(map[domain.NodeID][]float64{
		gateway: {20, 40, 60, 90, 120, 120, 60, 40},
	}, opsPerTurn)

	return graph, groups, sc, nil
}

// buildInitialSnapshot builds turn-0 state: idle, fully healthy nodes,
// every edge enabled, every capacity modifier inactive at baseline.
func buildInitialSnapshot(graph domain.Graph, groups domain.GroupSet) domain.Snapshot {
	nodeStates := make([]domain.NodeState, graph.NumNodes())
	for i := range nodeStates {
		nodeStates[i] = domain.InitialNodeState()
	}

	edgeStates := make([]domain.EdgeState, graph.NumEdges())
	for i := range edgeStates {
		edgeStates[i] = domain.InitialEdgeState()
	}

	modifiers := make([]domain.CapacityModifier, groups.Len())
	for i := range modifiers {
		modifiers[i] = domain.NewCapacityModifier(modifierLifetimeTurns)
	}

	return domain.NewSnapshot(0, nodeStates, edgeStates, modifiers)
}
