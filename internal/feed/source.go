// Package feed implements the resilient data source.
//
// The Source tries the MT5 bridge within a fixed timeout and, on any
// failure (timeout, connection refusal, non-success status), serves a
// synthetic payload from the fallback generator instead. Callers get
// the payload plus a degraded flag; an error surfaces only when the
// generator itself is defective.
package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/tradewire/mt5-stream/internal/model"
)

// Upstream is the subset of the bridge client the source depends on.
type Upstream interface {
	GetPrices(ctx context.Context, symbols []string) (model.QuoteBook, error)
	GetAccount(ctx context.Context) (model.Account, error)
	GetPositions(ctx context.Context) ([]model.Position, error)
}

// Generator produces synthetic payloads when the upstream is
// unavailable.
type Generator interface {
	Prices(symbols []string) (model.QuoteBook, error)
	Account() (model.Account, error)
	Positions() ([]model.Position, error)
}

// Source serves live data with fallback. Stateless apart from the
// upstream transport; concurrent poll loops share one Source without
// coordination.
type Source struct {
	upstream Upstream
	fallback Generator
	timeout  time.Duration
	logger   *slog.Logger
}

// NewSource creates a Source with the given per-call upstream timeout.
func NewSource(upstream Upstream, fallback Generator, timeout time.Duration, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &Source{
		upstream: upstream,
		fallback: fallback,
		timeout:  timeout,
		logger:   logger,
	}
}

// Prices fetches quotes for the given symbols. The boolean reports
// degraded mode (fallback data).
func (s *Source) Prices(ctx context.Context, symbols []string) (model.QuoteBook, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	book, err := s.upstream.GetPrices(callCtx, symbols)
	if err == nil {
		return book, false, nil
	}

	s.logger.Debug("upstream prices failed, serving fallback", "error", err)
	book, genErr := s.fallback.Prices(symbols)
	if genErr != nil {
		return nil, false, genErr
	}
	return book, true, nil
}

// Account fetches the account snapshot. The boolean reports degraded
// mode.
func (s *Source) Account(ctx context.Context) (model.Account, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	account, err := s.upstream.GetAccount(callCtx)
	if err == nil {
		return account, false, nil
	}

	s.logger.Debug("upstream account failed, serving fallback", "error", err)
	account, genErr := s.fallback.Account()
	if genErr != nil {
		return model.Account{}, false, genErr
	}
	return account, true, nil
}

// Positions fetches open positions. The boolean reports degraded mode.
func (s *Source) Positions(ctx context.Context) ([]model.Position, bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	positions, err := s.upstream.GetPositions(callCtx)
	if err == nil {
		return positions, false, nil
	}

	s.logger.Debug("upstream positions failed, serving fallback", "error", err)
	positions, genErr := s.fallback.Positions()
	if genErr != nil {
		return nil, false, genErr
	}
	return positions, true, nil
}
