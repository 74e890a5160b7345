// Package websocket implements the simulator's push channel: a hub fanning
// generation lifecycle events out to every connected client over a single
// logical channel.
package websocket

import (
	"log"
	"sync"

	"aria/types"
)

// Hub interface defines the methods for managing push channel connections
type Hub interface {
	Run()
	Broadcast(ev types.Event)
	RegisterClient(client *Client)
	UnregisterClient(client *Client)
}

// hub maintains the set of active clients and fans events out to them
type hub struct {
	// Registered clients
	clients map[*Client]bool

	// Broadcast channel carrying pre-encoded event frames
	broadcast chan []byte

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe operations
	mu sync.RWMutex
}

// NewHub creates a new event hub
func NewHub() Hub {
	return &hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main event loop
func (h *hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("event channel client connected (%d active)", h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			log.Printf("event channel client disconnected (%d active)", h.clientCount())

		case frame := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- frame:
				default:
					// slow client, drop it
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast encodes a typed event once and queues it for every client
func (h *hub) Broadcast(ev types.Event) {
	frame, err := types.EncodeEvent(ev)
	if err != nil {
		log.Printf("event channel: cannot encode %s: %v", ev.Kind(), err)
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		log.Printf("event channel broadcast buffer full, dropping %s", ev.Kind())
	}
}

// RegisterClient registers a new client with the hub
func (h *hub) RegisterClient(client *Client) {
	h.register <- client
}

// UnregisterClient unregisters a client from the hub
func (h *hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (h *hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
