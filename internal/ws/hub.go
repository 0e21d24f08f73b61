package ws

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Conn is the subset of websocket connection behavior the hub needs. The
// fiber contrib *websocket.Conn satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client wraps a connection with a write lock so broadcasts and the echo
// loop never interleave frames on the same socket.
type Client struct {
	conn Conn
	mu   sync.Mutex
}

// Send writes a text frame to the underlying connection.
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub tracks connected observers and fans events out to them. It is owned by
// the composition root and injected where needed; there is no package-level
// instance.
type Hub struct {
	mu      sync.Mutex
	clients map[Conn]*Client
	logger  *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[Conn]*Client),
		logger:  logger,
	}
}

// Connect registers a connection and returns its client handle.
func (h *Hub) Connect(conn Conn) *Client {
	client := &Client{conn: conn}
	h.mu.Lock()
	h.clients[conn] = client
	h.mu.Unlock()
	return client
}

// Disconnect removes a connection. Safe to call for untracked connections.
func (h *Hub) Disconnect(conn Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Count returns the number of connected observers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast serializes the payload once and delivers it to every connected
// observer. A failed send is logged and unregisters that connection; it never
// stops delivery to the rest and never surfaces to the caller.
func (h *Hub) Broadcast(payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("broadcast marshal failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		if err := client.Send(data); err != nil {
			h.logger.Warn("dropping observer after failed send", zap.Error(err))
			h.Disconnect(client.conn)
			_ = client.conn.Close()
		}
	}
}
