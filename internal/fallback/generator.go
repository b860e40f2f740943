// Package fallback produces synthetic market data for degraded mode.
//
// When the MT5 bridge is unreachable, the feed substitutes values from
// this generator. Payloads are schema-identical to real bridge
// responses, so downstream consumers never branch on the data source.
package fallback

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/tradewire/mt5-stream/internal/model"
)

// ErrNoQuoteTable reports a defective base quote table.
var ErrNoQuoteTable = errors.New("fallback: base quote table is empty")

// basePrice is the anchor bid/ask for a known symbol. Base spreads are
// at least two pips so independent half-pip perturbations cannot cross.
type basePrice struct {
	bid, ask float64
}

var baseBook = map[string]basePrice{
	"EURUSD": {1.0842, 1.0844},
	"GBPUSD": {1.2655, 1.2657},
	"USDJPY": {149.82, 149.84},
	"XAUUSD": {2032.50, 2032.85},
	"USDCHF": {0.8846, 0.8848},
	"AUDUSD": {0.6548, 0.6550},
}

// Demo account constants.
const (
	demoLogin    = 5000123
	demoName     = "Demo Account"
	demoServer   = "Demo-Server"
	demoCurrency = "USD"
	demoBalance  = 10000.00
	demoLeverage = 100
	demoMargin   = 212.50
)

// Generator produces synthetic quotes, account snapshots, and
// positions. Safe for concurrent use: all randomness goes through the
// shared math/rand/v2 source and there is no other mutable state.
type Generator struct {
	now func() time.Time
}

// NewGenerator creates a Generator using wall-clock time.
func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// Prices returns synthetic quotes for the requested symbols. Each call
// perturbs bid and ask independently by up to half a pip so repeated
// degraded polls show movement. Unknown symbols are silently omitted.
func (g *Generator) Prices(symbols []string) (model.QuoteBook, error) {
	if len(baseBook) == 0 {
		return nil, ErrNoQuoteTable
	}

	now := g.now().UTC().Format(time.RFC3339)
	book := make(model.QuoteBook, len(symbols))

	for _, symbol := range symbols {
		base, ok := baseBook[symbol]
		if !ok {
			continue
		}

		pip := model.PipSize(symbol)
		bid := roundPrice(base.bid+jitter(pip), pip)
		ask := roundPrice(base.ask+jitter(pip), pip)

		book[symbol] = model.Quote{
			Symbol: symbol,
			Bid:    bid,
			Ask:    ask,
			Last:   bid,
			Spread: model.SpreadPips(symbol, bid, ask),
			Time:   now,
		}
	}

	return book, nil
}

// Account returns the demo account snapshot. Equity tracks the
// floating profit of the demo positions so the numbers stay coherent.
func (g *Generator) Account() (model.Account, error) {
	positions, err := g.Positions()
	if err != nil {
		return model.Account{}, err
	}

	var profit float64
	for _, p := range positions {
		profit += p.Profit
	}
	profit = round2(profit)
	equity := round2(demoBalance + profit)

	return model.Account{
		Login:        demoLogin,
		Name:         demoName,
		Server:       demoServer,
		Currency:     demoCurrency,
		Balance:      demoBalance,
		Equity:       equity,
		Profit:       profit,
		Margin:       demoMargin,
		MarginFree:   round2(equity - demoMargin),
		MarginLevel:  round2(equity / demoMargin * 100),
		Leverage:     demoLeverage,
		TradeAllowed: true,
	}, nil
}

// Positions returns a small demo position list priced off the base
// quote table, with current prices and floating profit recomputed per
// call.
func (g *Generator) Positions() ([]model.Position, error) {
	quotes, err := g.Prices([]string{"EURUSD", "USDJPY"})
	if err != nil {
		return nil, err
	}

	eur := quotes["EURUSD"]
	jpy := quotes["USDJPY"]
	opened := g.now().UTC().Add(-4 * time.Hour).Format(time.RFC3339)

	// Per-lot contract size is 100000; JPY profit converts at the
	// current rate.
	eurProfit := round2((eur.Bid - 1.0825) * 100000 * 0.10)
	jpyProfit := round2((150.20 - jpy.Ask) * 100000 * 0.05 / jpy.Ask)

	return []model.Position{
		{
			Ticket:       84210341,
			Symbol:       "EURUSD",
			Type:         model.SideBuy,
			Volume:       0.10,
			PriceOpen:    1.0825,
			PriceCurrent: eur.Bid,
			SL:           1.0780,
			TP:           1.0920,
			Profit:       eurProfit,
			Swap:         -0.42,
			Commission:   0,
			Time:         opened,
			Comment:      "demo",
		},
		{
			Ticket:       84210342,
			Symbol:       "USDJPY",
			Type:         model.SideSell,
			Volume:       0.05,
			PriceOpen:    150.20,
			PriceCurrent: jpy.Ask,
			SL:           150.80,
			TP:           148.90,
			Profit:       jpyProfit,
			Swap:         0.15,
			Commission:   0,
			Time:         opened,
			Comment:      "demo",
		},
	}, nil
}

// KnownSymbol reports whether the generator has a base price for the
// symbol.
func KnownSymbol(symbol string) bool {
	_, ok := baseBook[symbol]
	return ok
}

// jitter returns a uniform perturbation with half-pip magnitude.
func jitter(pip float64) float64 {
	return (rand.Float64() - 0.5) * pip
}

// roundPrice rounds to the precision of a tenth of a pip.
func roundPrice(v, pip float64) float64 {
	step := pip / 10
	return math.Round(v/step) * step
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
