package websocket

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Hub maintains the set of active feed clients and broadcasts activity
// entries to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound feed messages for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Closed-loop shutdown signal.
	done chan bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 16),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan bool),
	}
}

// Run starts the Hub's message processing loop. The hub goroutine is the only
// owner of the client set.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			log.Info().Msg("Stopping feed hub")
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.Info().Int("total_clients", len(h.clients)).Msg("Feed client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.Info().Int("total_clients", len(h.clients)).Msg("Feed client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// Stop halts the hub loop and disconnects every client.
func (h *Hub) Stop() {
	h.done <- true
}

// BroadcastActivity wraps an encoded activity entry in the feed's message
// envelope and pushes it to every connected client. Satisfies the
// services.Broadcaster interface.
func (h *Hub) BroadcastActivity(payload []byte) {
	message, err := json.Marshal(Message{Action: "activity", Payload: json.RawMessage(payload)})
	if err != nil {
		return
	}
	select {
	case h.Broadcast <- message:
	default:
		// Feed delivery is best-effort; drop rather than stall a request.
	}
}
