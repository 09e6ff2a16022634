package handlers

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/arnold/healthgoals-api/internal/middleware"
	"github.com/arnold/healthgoals-api/internal/services"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// connection serializes writes to one socket, which allows a single writer
// at a time.
type connection struct {
	mu   sync.Mutex
	conn messageWriter
}

func (c *connection) write(msg []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub fans goal events out to the websocket connections of a session.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uuid.UUID]map[*connection]bool // sessionID -> set of connections
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[uuid.UUID]map[*connection]bool),
	}
}

func (h *Hub) register(sessionID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[sessionID] == nil {
		h.rooms[sessionID] = make(map[*connection]bool)
	}
	h.rooms[sessionID][conn] = true
	slog.Debug("ws register", "session_id", sessionID, "connections", len(h.rooms[sessionID]))
}

func (h *Hub) unregister(sessionID uuid.UUID, conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[sessionID]; ok {
		delete(conns, conn)
		slog.Debug("ws unregister", "session_id", sessionID, "remaining", len(conns))
		if len(conns) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

// Connections reports how many sockets are open for the session.
func (h *Hub) Connections(sessionID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[sessionID])
}

func (h *Hub) snapshot(sessionID uuid.UUID) []*connection {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns := h.rooms[sessionID]
	out := make([]*connection, 0, len(conns))
	for c := range conns {
		out = append(out, c)
	}
	return out
}

// Broadcast writes the event to every connection of the session. The hub
// lock is not held while writing, so a slow client only delays its own
// session. A connection that fails a write is closed and dropped.
func (h *Hub) Broadcast(sessionID uuid.UUID, event services.GoalEvent) {
	conns := h.snapshot(sessionID)
	if len(conns) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		slog.Error("ws broadcast marshal error", "error", err)
		return
	}

	for _, c := range conns {
		if err := c.write(msg); err != nil {
			slog.Warn("ws write error, dropping connection", "error", err, "session_id", sessionID)
			h.unregister(sessionID, c)
			c.conn.Close()
		}
	}
}

// HandleWebSocket keeps a session's connection registered until the client
// goes away. Incoming messages are only keepalives.
func (h *Hub) HandleWebSocket(c *websocket.Conn) {
	sessionID, ok := c.Locals(middleware.SessionIDKey).(uuid.UUID)
	if !ok || sessionID == uuid.Nil {
		c.Close()
		return
	}

	conn := &connection{conn: c}
	h.register(sessionID, conn)
	defer h.unregister(sessionID, conn)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}

var _ services.Broadcaster = (*Hub)(nil)
