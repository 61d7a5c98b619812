// Package rest is the operator-facing HTTP API: the external driver
// that calls Engine.Step/TryThrottleGroup/TryBoostGroup in response to
// operator requests.
package rest

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/haldorsen/meshsim/internal/engine"
	"github.com/haldorsen/meshsim/internal/infrastructure/ledger"
	"github.com/haldorsen/meshsim/internal/infrastructure/websocket"
)

// Server wraps a gin router around a single *engine.Engine. The engine
// requires exactly one writer serializing Step/operator-action calls;
// here that writer is the HTTP handler goroutine currently holding mu,
// the same discipline a single terminal event loop enforces by
// construction.
type Server struct {
	mu     sync.Mutex
	engine *engine.Engine
	ledger ledger.Ledger
	hub    *websocket.Hub
	log    zerolog.Logger
	router *gin.Engine
}

// NewServer builds a Server. Every handler is registered against
// eng/led/hub; the engine is never safe for concurrent use on its own
// (see internal/engine's doc comment), so every handler below takes mu
// before touching it.
func NewServer(eng *engine.Engine, led ledger.Ledger, hub *websocket.Hub, log zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{engine: eng, ledger: led, hub: hub, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log), cors())
	s.router = r
	s.routes()
	return s
}

// ServeHTTP lets Server satisfy http.Handler so cmd/server can hand it
// straight to an http.Server.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/ws", gin.WrapH(websocket.NewHandler(s.hub)))

	api := s.router.Group("/api/v1")
	{
		api.GET("/state", s.handleState)
		api.POST("/step", s.handleStep)
		api.GET("/groups", s.handleGroups)
		api.POST("/groups/:id/throttle", s.handleThrottle)
		api.POST("/groups/:id/boost", s.handleBoost)
		api.GET("/ops", s.handleOps)
		api.GET("/history", s.handleHistory)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SuccessResponse is the envelope every successful response is wrapped
// in.
type SuccessResponse struct {
	Data interface{} `json:"data"`
}

func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{Data: data})
}

func respondAPIError(c *gin.Context, err *APIError) {
	c.JSON(err.HTTPStatus, err)
}
