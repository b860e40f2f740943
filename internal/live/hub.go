package live

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live sessions and fans the positions-changed signal out
// to every subscribed positions task.
type Hub struct {
	cfg    Config
	source Source
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	refreshMu  sync.Mutex
	refreshers map[chan struct{}]struct{}
}

// NewHub creates a Hub.
func NewHub(cfg Config, source Source, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		cfg:        cfg,
		source:     source,
		logger:     logger,
		sessions:   make(map[uuid.UUID]*Session),
		refreshers: make(map[chan struct{}]struct{}),
	}
}

// NewSession registers a session for the given sink and returns it.
func (h *Hub) NewSession(sink Sink) *Session {
	s := &Session{
		id:     uuid.New(),
		hub:    h,
		sink:   sink,
		logger: h.logger,
		tasks:  make(map[Kind]*pollTask),
	}

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	h.logger.Info("client connected", "session", s.id)
	return s
}

// NotifyPositionsChanged wakes every subscribed positions task for an
// immediate out-of-cadence poll. Never blocks the caller: a task whose
// wakeup is already pending is skipped.
func (h *Hub) NotifyPositionsChanged() {
	h.refreshMu.Lock()
	defer h.refreshMu.Unlock()

	for ch := range h.refreshers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// SessionCount returns the number of live sessions.
func (h *Hub) SessionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// Close tears down every session. Called on server shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (h *Hub) removeSession(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.id)
	h.mu.Unlock()

	h.logger.Info("client disconnected", "session", s.id)
}

func (h *Hub) addRefresher(ch chan struct{}) {
	h.refreshMu.Lock()
	h.refreshers[ch] = struct{}{}
	h.refreshMu.Unlock()
}

func (h *Hub) removeRefresher(ch chan struct{}) {
	h.refreshMu.Lock()
	delete(h.refreshers, ch)
	h.refreshMu.Unlock()
}
