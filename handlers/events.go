package handlers

import (
	"log"

	"github.com/gin-gonic/gin"

	"aria/websocket"
)

// EventHandler upgrades HTTP connections onto the push channel
type EventHandler struct {
	hub websocket.Hub
}

// NewEventHandler creates a new event handler
func NewEventHandler(hub websocket.Hub) *EventHandler {
	return &EventHandler{
		hub: hub,
	}
}

// Events upgrades the connection and attaches it to the hub
func (h *EventHandler) Events(c *gin.Context) {
	upgrader := websocket.GetUpgrader()
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn)
	h.hub.RegisterClient(client)
	client.StartPumps()
}
