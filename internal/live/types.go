package live

import (
	"context"
	"time"

	"github.com/tradewire/mt5-stream/internal/model"
)

// Kind identifies a live data channel.
type Kind string

const (
	KindPrices    Kind = "prices"
	KindAccount   Kind = "account"
	KindPositions Kind = "positions"
)

// Inbound control message types.
const (
	msgSubscribePrices      = "subscribe:prices"
	msgSubscribeAccount     = "subscribe:account"
	msgSubscribePositions   = "subscribe:positions"
	msgUnsubscribePrices    = "unsubscribe:prices"
	msgUnsubscribeAccount   = "unsubscribe:account"
	msgUnsubscribePositions = "unsubscribe:positions"
	msgPositionsRefresh     = "positions:refresh"
)

// Event is one outbound push to a client.
type Event struct {
	Type     string `json:"type"`
	Degraded bool   `json:"degraded"`
	Data     any    `json:"data"`
}

// errorData is the payload of a <kind>:error event.
type errorData struct {
	Error string `json:"error"`
}

// controlMessage is an inbound client message.
type controlMessage struct {
	Type    string   `json:"type"`
	Symbols []string `json:"symbols,omitempty"`
}

// Sink delivers events to one client. Implementations must be safe
// for concurrent use: tasks for different kinds push concurrently.
type Sink interface {
	Push(ev Event) error
}

// Source is what poll tasks fetch from. *feed.Source satisfies it.
type Source interface {
	Prices(ctx context.Context, symbols []string) (model.QuoteBook, bool, error)
	Account(ctx context.Context) (model.Account, bool, error)
	Positions(ctx context.Context) ([]model.Position, bool, error)
}

// Config holds stream cadences and fetch bounds.
type Config struct {
	PricesInterval    time.Duration
	AccountInterval   time.Duration
	PositionsInterval time.Duration
	FetchTimeout      time.Duration // must stay below every interval
	DefaultSymbols    []string
	WriteTimeout      time.Duration // WebSocket write deadline
	PingInterval      time.Duration // server-side keepalive ping cadence
	PongWait          time.Duration // read deadline; a silent client is dead after this
}

// DefaultConfig returns the standard cadences.
func DefaultConfig() Config {
	return Config{
		PricesInterval:    1 * time.Second,
		AccountInterval:   2 * time.Second,
		PositionsInterval: 2 * time.Second,
		FetchTimeout:      300 * time.Millisecond,
		DefaultSymbols:    []string{"EURUSD", "GBPUSD", "USDJPY", "XAUUSD", "USDCHF", "AUDUSD"},
		WriteTimeout:      5 * time.Second,
		PingInterval:      30 * time.Second,
		PongWait:          75 * time.Second,
	}
}

// interval returns the cadence for a kind.
func (c Config) interval(kind Kind) time.Duration {
	switch kind {
	case KindPrices:
		return c.PricesInterval
	case KindAccount:
		return c.AccountInterval
	default:
		return c.PositionsInterval
	}
}
