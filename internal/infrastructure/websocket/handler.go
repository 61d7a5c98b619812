package websocket

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Operator dashboards are typically served from a different origin
	// than the API; this is a single-tenant internal tool, not a public
	// endpoint, so any origin is accepted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler handles WebSocket upgrade requests and registers the resulting
// client with the hub.
type Handler struct {
	hub *Hub
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeHTTP upgrades the request to a WebSocket connection and starts the
// client's read/write pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Error().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(uuid.New().String(), h.hub, conn)
	h.hub.log.Info().Str("client_id", client.id).Str("remote_addr", r.RemoteAddr).Msg("websocket client connected")

	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
