package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"fokus/internal/models"
	"fokus/internal/state"
)

const (
	pingInterval  = 30 * time.Second
	readDeadline  = 60 * time.Second
	writeDeadline = 10 * time.Second
	sendBuffer    = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // localhost tool, same-origin enforcement is not useful here
	},
}

// hub fans state snapshots out to connected WebSocket clients. It holds
// one store subscription for its whole lifetime; each connected client
// gets the current snapshot on connect and every change thereafter.
type hub struct {
	app    *state.Store
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*wsClient]struct{}

	unsubscribe func()
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(app *state.Store, logger *slog.Logger) *hub {
	h := &hub{
		app:     app,
		logger:  logger,
		clients: make(map[*wsClient]struct{}),
	}
	h.unsubscribe = app.Subscribe(h.broadcast)
	return h
}

func (h *hub) broadcast(st models.AppState) {
	payload, err := json.Marshal(st)
	if err != nil {
		h.logger.Warn("snapshot marshal failed", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			// Slow client; drop it rather than block the store.
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}

	// New clients see the current snapshot before any updates.
	if payload, err := json.Marshal(h.app.State()); err == nil {
		c.send <- payload
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writePump(c)
	go h.readPump(c)
}

// writePump delivers queued snapshots and keeps the connection alive
// with pings.
func (h *hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains the connection so pongs and close frames are
// processed; clients never send application messages.
func (h *hub) readPump(c *wsClient) {
	defer h.drop(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) drop(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *hub) close() {
	h.unsubscribe()
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		_ = c.conn.Close()
	}
}
