package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// streamMessage is the envelope pushed to every connected websocket client:
// full state snapshots on each committed change, plus user notifications.
type streamMessage struct {
	Type    string `json:"type"`
	State   any    `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
}

type hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients []*websocket.Conn
}

func newHub(logger *slog.Logger) *hub {
	return &hub{logger: logger}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients = append(h.clients, conn)
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, c := range h.clients {
		if c == conn {
			h.clients = append(h.clients[:i], h.clients[i+1:]...)
			break
		}
	}
	conn.Close()
}

func (h *hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast writes msg to every client and prunes the dead ones.
func (h *hub) broadcast(msg streamMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encoding stream message", "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	alive := h.clients[:0]
	for _, conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	h.clients = alive
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conn := range h.clients {
		conn.Close()
	}
	h.clients = nil
}

// serveWS upgrades the connection and sends the current state so a client
// renders immediately instead of waiting for the next mutation.
func (h *hub) serveWS(w http.ResponseWriter, r *http.Request, initial streamMessage) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	if data, err := json.Marshal(initial); err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			return
		}
	}

	h.add(conn)

	// Clients never send application data; the read loop processes control
	// frames and drops the client as soon as the peer goes away, instead of
	// waiting for the next broadcast write to fail.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.remove(conn)
				return
			}
		}
	}()
}
