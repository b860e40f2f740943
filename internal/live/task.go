package live

import (
	"context"
	"log/slog"
	"time"
)

// pollTask is the background activity behind one subscription. It is
// created with its first poll already done (the subscriber sees data
// without waiting a full interval) and then ticks on its cadence
// until cancelled.
type pollTask struct {
	kind     Kind
	symbols  []string
	interval time.Duration
	timeout  time.Duration

	source Source
	sink   Sink
	hub    *Hub
	logger *slog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	refresh chan struct{} // nil unless kind == positions
}

// startTask creates the task, performs the immediate first poll
// synchronously, and launches the tick loop. Caller holds s.mu.
func (s *Session) startTask(kind Kind, symbols []string) *pollTask {
	ctx, cancel := context.WithCancel(context.Background())

	t := &pollTask{
		kind:     kind,
		symbols:  symbols,
		interval: s.hub.cfg.interval(kind),
		timeout:  s.hub.cfg.FetchTimeout,
		source:   s.hub.source,
		sink:     s.sink,
		hub:      s.hub,
		logger:   s.logger,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	if kind == KindPositions {
		t.refresh = make(chan struct{}, 1)
		s.hub.addRefresher(t.refresh)
	}

	t.poll()
	go t.run()

	return t
}

// run ticks until cancelled. A receive on the nil refresh channel
// blocks forever, so non-positions tasks only ever see the ticker.
// The ticker keeps its own schedule: a refresh wakeup does not move
// the next scheduled tick.
func (t *pollTask) run() {
	defer close(t.done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-t.refresh:
			t.poll()
		case <-ticker.C:
			t.poll()
		}
	}
}

// stop cancels the task and waits for its loop to exit. After stop
// returns no further push can occur, so the (session, kind) slot is
// safe to reuse.
func (t *pollTask) stop() {
	t.cancel()
	<-t.done

	if t.refresh != nil {
		t.hub.removeRefresher(t.refresh)
	}
}

// poll performs one fetch-and-push tick. Ticks are strictly
// sequential: poll is only ever called from the subscribe path or the
// run loop, never concurrently.
func (t *pollTask) poll() {
	ctx, cancel := context.WithTimeout(t.ctx, t.timeout)
	defer cancel()

	var (
		payload  any
		degraded bool
		err      error
	)

	switch t.kind {
	case KindPrices:
		payload, degraded, err = t.source.Prices(ctx, t.symbols)
	case KindAccount:
		payload, degraded, err = t.source.Account(ctx)
	default:
		payload, degraded, err = t.source.Positions(ctx)
	}

	if err != nil {
		// The task keeps ticking; the client just sees an error
		// event for this poll.
		t.logger.Warn("poll failed", "kind", t.kind, "error", err)
		t.push(Event{
			Type: string(t.kind) + ":error",
			Data: errorData{Error: "failed to fetch " + string(t.kind)},
		})
		return
	}

	t.push(Event{
		Type:     string(t.kind) + ":update",
		Degraded: degraded,
		Data:     payload,
	})
}

// push delivers one event unless the task was cancelled mid-tick.
func (t *pollTask) push(ev Event) {
	if t.ctx.Err() != nil {
		return
	}
	if err := t.sink.Push(ev); err != nil {
		t.logger.Debug("push failed", "kind", t.kind, "error", err)
	}
}
