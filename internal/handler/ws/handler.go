// Package ws adapts WebSocket connections to the relay engine's peer
// abstraction. It owns the read/write pumps and the keepalive ping loop;
// all message semantics live in internal/relay.
package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/parley-chat/parley/internal/config"
	"github.com/parley-chat/parley/internal/relay"
)

// Handler upgrades HTTP requests to WebSocket connections and feeds the
// resulting frames into the relay engine.
type Handler struct {
	engine       *relay.Engine
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	readTimeout  time.Duration
}

// New creates the WebSocket handler.
func New(engine *relay.Engine, cfg config.RelayConfig) *Handler {
	return &Handler{
		engine: engine,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval: cfg.PingInterval,
		readTimeout:  cfg.ReadTimeout,
	}
}

// RegisterRoutes mounts the WebSocket endpoint.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws", h.handleWebSocket)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	p := newPeer(conn)
	go p.writePump(h.pingInterval)

	h.engine.Connect(p)
	defer func() {
		h.engine.Disconnect(p)
		p.close()
	}()

	conn.SetReadDeadline(time.Now().Add(h.readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		return nil
	})

	for {
		kind, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		if kind != websocket.TextMessage {
			continue
		}

		conn.SetReadDeadline(time.Now().Add(h.readTimeout))
		h.engine.Frame(p, raw)
	}
}
