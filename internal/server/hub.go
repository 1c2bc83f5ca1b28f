package server

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is pushed to websocket clients when shared state changes.
// Clients re-fetch through the REST API; events carry no payload.
type Event struct {
	Type string `json:"type"`
}

// EventNotesChanged fires after any note or folder mutation settles.
const EventNotesChanged = "notes_changed"

// WSHub fans change events out to connected websocket clients.
type WSHub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.RWMutex
	log        zerolog.Logger
}

// NewWSHub creates a hub. Call Run on its own goroutine.
func NewWSHub(log zerolog.Logger) *WSHub {
	return &WSHub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		log:        log,
	}
}

// Run services the hub channels until the process exits.
func (h *WSHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.clients[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			var dead []*websocket.Conn
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					h.log.Debug().Err(err).Msg("websocket write failed")
					dead = append(dead, conn)
				}
			}
			h.mu.RUnlock()

			// Drop dead connections inline. Run is the sole receiver on
			// unregister, so routing them through the channel here would
			// block this loop on itself.
			if len(dead) > 0 {
				h.mu.Lock()
				for _, conn := range dead {
					if _, ok := h.clients[conn]; ok {
						delete(h.clients, conn)
						conn.Close()
					}
				}
				h.mu.Unlock()
			}
		}
	}
}

// Broadcast queues an event for all clients. Drops when the queue is
// full rather than blocking a mutation path.
func (h *WSHub) Broadcast(eventType string) {
	select {
	case h.broadcast <- Event{Type: eventType}:
	default:
	}
}

// Register adds a client connection.
func (h *WSHub) Register(conn *websocket.Conn) {
	h.register <- conn
}

// HandleConnection reads (and discards) client frames until the
// connection drops, then unregisters it.
func (h *WSHub) HandleConnection(conn *websocket.Conn) {
	defer func() { h.unregister <- conn }()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
