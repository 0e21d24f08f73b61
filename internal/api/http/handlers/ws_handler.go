package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/supportdesk/inquiry-service/internal/ws"
)

// WSHandler upgrades observer connections and runs their read loop.
type WSHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

// NewWSHandler constructs the handler.
func NewWSHandler(hub *ws.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, logger: logger}
}

// Upgrade rejects non-websocket requests before the upgrade middleware runs.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve is the connection loop. Event delivery happens through the hub; the
// read loop only answers pings and echoes anything else back.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := h.hub.Connect(conn)
		defer func() {
			h.hub.Disconnect(conn)
			_ = conn.Close()
		}()
		h.logger.Debug("observer connected", zap.Int("observers", h.hub.Count()))

		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}
			if string(data) == "ping" {
				data = []byte("pong")
			}
			if err := client.Send(data); err != nil {
				return
			}
		}
	})
}
