package websocket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Hub fans turn updates out to every connected operator client. There is
// no per-client subscription model here: every client watches the same
// single simulation, so a broadcast always goes to all of them.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *TurnMessage

	log zerolog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *TurnMessage, 256),
		log:        log,
	}
}

// Run starts the hub's main event loop. It should be called in a
// goroutine and runs until ctx-driven shutdown closes the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("total_clients", n).Msg("websocket client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.log.Debug().Int("total_clients", n).Msg("websocket client unregistered")

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					h.log.Warn().Msg("client send buffer full, dropping turn message")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Broadcast pushes a turn message to every connected client.
func (h *Hub) Broadcast(msg *TurnMessage) {
	h.broadcast <- msg
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
