package live

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Session owns one client's subscriptions. All registry mutations for
// a session are serialized under its mutex, which preserves the
// at-most-one-task-per-kind invariant without any cross-session lock.
type Session struct {
	id     uuid.UUID
	hub    *Hub
	sink   Sink
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
	tasks  map[Kind]*pollTask
}

// ID returns the session identity.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Subscribe starts a poll task for the kind. An existing task for the
// same kind is cancelled to completion first, then the replacement
// performs one immediate poll before entering its cadence. Ignored on
// a closed session. Symbols apply to the prices kind only; an empty
// set falls back to the configured default symbols.
func (s *Session) Subscribe(kind Kind, symbols []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	if old, ok := s.tasks[kind]; ok {
		old.stop()
		delete(s.tasks, kind)
	}

	if kind == KindPrices && len(symbols) == 0 {
		symbols = s.hub.cfg.DefaultSymbols
	}

	s.logger.Info("subscribed", "session", s.id, "kind", kind, "symbols", symbols)
	s.tasks[kind] = s.startTask(kind, symbols)
}

// Unsubscribe stops the poll task for the kind. No-op if the kind is
// not subscribed or the session is closed.
func (s *Session) Unsubscribe(kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	task, ok := s.tasks[kind]
	if !ok {
		return
	}
	task.stop()
	delete(s.tasks, kind)

	s.logger.Info("unsubscribed", "session", s.id, "kind", kind)
}

// Close cancels every task this session owns and deregisters it from
// the hub. Safe to call more than once; only the first call acts.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true

	for kind, task := range s.tasks {
		task.stop()
		delete(s.tasks, kind)
	}
	s.mu.Unlock()

	s.hub.removeSession(s)
}

// HandleControl dispatches one inbound client message. Messages
// arriving on a closed session are dropped.
func (s *Session) HandleControl(msg controlMessage) {
	switch msg.Type {
	case msgSubscribePrices:
		s.Subscribe(KindPrices, msg.Symbols)
	case msgSubscribeAccount:
		s.Subscribe(KindAccount, nil)
	case msgSubscribePositions:
		s.Subscribe(KindPositions, nil)
	case msgUnsubscribePrices:
		s.Unsubscribe(KindPrices)
	case msgUnsubscribeAccount:
		s.Unsubscribe(KindAccount)
	case msgUnsubscribePositions:
		s.Unsubscribe(KindPositions)
	case msgPositionsRefresh:
		s.hub.NotifyPositionsChanged()
	default:
		s.logger.Debug("ignoring unknown message", "session", s.id, "type", msg.Type)
	}
}

// taskCount returns the number of live tasks. Test hook.
func (s *Session) taskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
