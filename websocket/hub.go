package websocket

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Event types pushed to connected POS screens.
const (
	EventTypePaymentRecorded  = "payment_recorded"
	EventTypePaymentCompleted = "payment_completed"
)

// Event is a message sent over WebSocket when a transaction changes,
// so every open POS screen can refresh its records table.
type Event struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Client represents a connected POS screen.
type Client struct {
	Conn     *websocket.Conn
	Username string
}

// Hub maintains the set of active clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every connected screen. Write failures
// are ignored; the reader loop tears down dead connections.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.Conn.WriteJSON(event)
	}
}

// NotifyPaymentRecorded announces a newly recorded transaction.
func (h *Hub) NotifyPaymentRecorded(data interface{}) {
	h.Broadcast(Event{
		Type:    EventTypePaymentRecorded,
		Message: "New transaction recorded",
		Data:    data,
	})
}

// NotifyPaymentCompleted announces an unpaid record being paid.
func (h *Hub) NotifyPaymentCompleted(data interface{}) {
	h.Broadcast(Event{
		Type:    EventTypePaymentCompleted,
		Message: "Payment completed",
		Data:    data,
	})
}
