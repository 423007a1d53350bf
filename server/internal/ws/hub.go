package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/snippr/snippr/server/internal/store"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// eventBufSize is how many created events may queue before Run drains them.
	eventBufSize = 256
)

// Event names sent in Message.Event.
const (
	EventSnapshot = "snapshot"
	EventCreated  = "created"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; apply CORS at the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub manages WebSocket client connections. New clients receive the full
// snippet list; afterwards every created snippet is broadcast to all clients.
type Hub struct {
	store      *store.Store
	pingPeriod time.Duration
	pongWait   time.Duration
	events     chan []byte

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// client represents one connected WebSocket client.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub reading from st and subscribes it to st's create events.
// pingPeriod controls keepalive pings; a client that does not answer within
// 10/9 of it is dropped.
func New(st *store.Store, pingPeriod time.Duration) *Hub {
	h := &Hub{
		store:      st,
		pingPeriod: pingPeriod,
		pongWait:   pingPeriod * 10 / 9,
		events:     make(chan []byte, eventBufSize),
		clients:    make(map[*client]struct{}),
	}
	st.OnCreate(h.Publish)
	return h
}

// Publish queues a created event for broadcast. It never blocks: when the
// queue is full the event is dropped and logged.
func (h *Hub) Publish(sn store.Snippet) {
	data, err := json.Marshal(Message{Event: EventCreated, Data: sn})
	if err != nil {
		slog.Error("ws: marshal created event", "id", sn.ID, "err", err)
		return
	}
	select {
	case h.events <- data:
	default:
		slog.Warn("ws: event queue full, dropping created event", "id", sn.ID)
	}
}

// Run broadcasts queued events until ctx is cancelled, then closes all active
// connections.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case data := <-h.events:
			h.broadcast(data)
		}
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// The current snippet list is sent immediately on connect. Blocks until the
// connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	if !h.register(c) {
		conn.WriteMessage(websocket.CloseMessage, //nolint:errcheck
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	defer h.unregister(c)

	go c.writePump(h.pingPeriod)
	c.readPump(h.pongWait) // blocks until connection closes
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// --- internal ---------------------------------------------------------------

// register adds c and queues the snapshot in the same critical section, so
// any created event broadcast afterwards is ordered behind it. Snippets
// created concurrently may appear in both; clients dedupe by id.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	data, err := json.Marshal(Message{Event: EventSnapshot, Data: h.store.List("")})
	if err == nil {
		c.send <- data // fresh channel, cannot block
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dropLocked(c)
}

func (h *Hub) dropLocked(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client's outgoing buffer is full; disconnect it.
			slog.Warn("ws: dropping slow client", "remote", c.conn.RemoteAddr().String())
			h.dropLocked(c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		h.dropLocked(c)
	}
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads frames from the connection to process control messages (pong,
// close) and detect disconnects. Blocks until the connection closes.
func (c *client) readPump(pongWait time.Duration) {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
