// Package ws bridges the opportunity signal bus to WebSocket clients, so
// dashboards see detections as they happen without polling the history API.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arbisport/arbisport/internal/domain"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size of an incoming message.
	maxMessageSize = 1024

	// sendBufferSize is the channel buffer for outgoing messages per client.
	sendBufferSize = 64
)

// upgrader configures the WebSocket upgrade parameters. Origin checks are
// handled by the CORS middleware in front of the mux.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// client represents a single WebSocket connection.
type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub fans the opportunity channel out to every connected WebSocket client.
// Messages are JSON text frames shaped as {"type": ..., "payload": ...}.
type Hub struct {
	bus     domain.SignalBus
	channel string
	logger  *slog.Logger

	register   chan *client
	unregister chan *client
	broadcast  chan []byte

	mu        sync.RWMutex
	clients   map[*client]bool
	startedAt time.Time
}

// NewHub creates a Hub that relays payloads published on channel.
func NewHub(bus domain.SignalBus, channel string, logger *slog.Logger) *Hub {
	return &Hub{
		bus:        bus,
		channel:    channel,
		logger:     logger.With(slog.String("component", "ws")),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*client]bool),
		startedAt:  time.Now().UTC(),
	}
}

// Run starts the hub loop: it subscribes to the bus and dispatches payloads
// to connected clients until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	go h.pump(ctx)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Info("client connected", slog.Int("total_clients", h.clientCount()))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			h.logger.Info("client disconnected", slog.Int("total_clients", h.clientCount()))

		case data := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- data:
				default:
					// Client's send buffer is full; drop the message.
					h.logger.Warn("dropping message for slow client")
				}
			}
			h.mu.RUnlock()
		}
	}
}

// pump reads the bus subscription and wraps each record in the envelope the
// dashboard expects.
func (h *Hub) pump(ctx context.Context) {
	msgs, err := h.bus.Subscribe(ctx, h.channel)
	if err != nil {
		h.logger.Error("bus subscribe failed",
			slog.String("channel", h.channel),
			slog.String("error", err.Error()),
		)
		return
	}

	for payload := range msgs {
		envelope, err := json.Marshal(map[string]any{
			"type":    "opportunity",
			"payload": json.RawMessage(payload),
		})
		if err != nil {
			continue
		}
		select {
		case h.broadcast <- envelope:
		case <-ctx.Done():
			return
		}
	}
}

// HandleWS upgrades an HTTP request to a WebSocket connection and registers
// the client with the hub.
// GET /ws
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.register <- c
	c.sendHello()

	go c.writePump()
	go c.readPump()
}

// clientCount returns the number of currently connected clients.
func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// sendHello pushes a small envelope so clients can mark the connection
// healthy before any opportunity arrives.
func (c *client) sendHello() {
	uptime := int64(time.Since(c.hub.startedAt).Seconds())
	if uptime < 0 {
		uptime = 0
	}
	msg, err := json.Marshal(map[string]any{
		"type": "hello",
		"payload": map[string]any{
			"channel":        c.hub.channel,
			"uptime_seconds": uptime,
		},
	})
	if err != nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

// readPump drains the connection. Clients send nothing meaningful; the read
// loop exists to process pongs and detect closes.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection and
// sends periodic pings for keepalive.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
