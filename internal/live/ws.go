package live

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to WebSocket sessions and runs their
// read loops.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the WebSocket endpoint handler. With an empty
// allowedOrigin every origin is accepted.
func NewHandler(hub *Hub, allowedOrigin string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// ServeHTTP runs one client connection end to end. Returning tears
// the session down, which stops every poll task the client owned.
//
// Liveness: the server pings on a fixed cadence and holds a read
// deadline extended by each pong. A client that vanishes without a
// close frame stops ponging, the deadline fires, and the read loop
// exits, so its session never outlives the transport.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer conn.Close()

	sink := newWSSink(conn, h.hub.cfg.WriteTimeout)
	session := h.hub.NewSession(sink)
	defer session.Close()

	_ = conn.SetReadDeadline(time.Now().Add(h.hub.cfg.PongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.hub.cfg.PongWait))
	})

	stopPing := make(chan struct{})
	defer close(stopPing)
	go h.pingLoop(conn, stopPing)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read error", "session", session.ID(), "error", err)
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("malformed control message", "session", session.ID(), "error", err)
			continue
		}

		session.HandleControl(msg)
	}
}

// pingLoop sends keepalive pings until the connection is done. A
// failed ping write closes the connection, which unblocks the read
// loop.
func (h *Handler) pingLoop(conn *websocket.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(h.hub.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.hub.cfg.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, []byte("keepalive"), deadline); err != nil {
				h.logger.Debug("keepalive ping failed", "error", err)
				conn.Close()
				return
			}
		}
	}
}

// wsSink pushes events over one WebSocket connection. Concurrent poll
// tasks share the connection, so writes are serialized.
type wsSink struct {
	conn    *websocket.Conn
	timeout time.Duration
	mu      sync.Mutex
}

func newWSSink(conn *websocket.Conn, timeout time.Duration) *wsSink {
	return &wsSink{conn: conn, timeout: timeout}
}

func (s *wsSink) Push(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return err
	}
	if err := s.conn.WriteJSON(ev); err != nil {
		// The transport is dead. Closing it unblocks the read loop,
		// which tears the session down.
		s.conn.Close()
		return err
	}
	return nil
}
