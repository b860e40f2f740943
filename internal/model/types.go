package model

import (
	"math"
	"strings"
)

// Quote is the current price for a single symbol.
type Quote struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"last"`
	Spread float64 `json:"spread"` // pips, rounded to 1 decimal
	Time   string  `json:"time"`   // ISO 8601
}

// QuoteBook maps symbol → quote.
type QuoteBook map[string]Quote

// Account is a trading account snapshot.
type Account struct {
	Login        int64   `json:"login"`
	Name         string  `json:"name"`
	Server       string  `json:"server"`
	Currency     string  `json:"currency"`
	Balance      float64 `json:"balance"`
	Equity       float64 `json:"equity"`
	Profit       float64 `json:"profit"`
	Margin       float64 `json:"margin"`
	MarginFree   float64 `json:"margin_free"`
	MarginLevel  float64 `json:"margin_level"`
	Leverage     int     `json:"leverage"`
	TradeAllowed bool    `json:"trade_allowed"`
}

// Side is the direction of a position or order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Position is a single open position.
type Position struct {
	Ticket       int64   `json:"ticket"`
	Symbol       string  `json:"symbol"`
	Type         Side    `json:"type"`
	Volume       float64 `json:"volume"`
	PriceOpen    float64 `json:"price_open"`
	PriceCurrent float64 `json:"price_current"`
	SL           float64 `json:"sl"`
	TP           float64 `json:"tp"`
	Profit       float64 `json:"profit"`
	Swap         float64 `json:"swap"`
	Commission   float64 `json:"commission"`
	Time         string  `json:"time"`
	Comment      string  `json:"comment"`
}

// HistoryDeal is a closed deal from the account history.
type HistoryDeal struct {
	Ticket     int64   `json:"ticket"`
	Order      int64   `json:"order"`
	Symbol     string  `json:"symbol"`
	Type       Side    `json:"type"`
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Profit     float64 `json:"profit"`
	Commission float64 `json:"commission"`
	Swap       float64 `json:"swap"`
	Time       string  `json:"time"`
	Comment    string  `json:"comment"`
}

// TradeRequest describes a market order to open.
type TradeRequest struct {
	Symbol  string  `json:"symbol"`
	Type    Side    `json:"type"`
	Volume  float64 `json:"volume"`
	SL      float64 `json:"sl"`
	TP      float64 `json:"tp"`
	Comment string  `json:"comment"`
}

// TradeResult is the bridge's response to a successful open.
type TradeResult struct {
	Success bool    `json:"success"`
	Order   int64   `json:"order"`
	Ticket  int64   `json:"ticket"`
	Volume  float64 `json:"volume"`
	Price   float64 `json:"price"`
	Comment string  `json:"comment"`
}

// CloseResult is the bridge's response to a successful close.
type CloseResult struct {
	Success    bool    `json:"success"`
	Ticket     int64   `json:"ticket"`
	ClosePrice float64 `json:"close_price"`
	Profit     float64 `json:"profit"`
}

// PipSize returns the pip increment for a symbol.
// JPY-quoted pairs use 0.01, everything else 0.0001.
func PipSize(symbol string) float64 {
	if isJPY(symbol) {
		return 0.01
	}
	return 0.0001
}

// SpreadPips converts a bid/ask pair to a spread in pips,
// rounded to 1 decimal.
func SpreadPips(symbol string, bid, ask float64) float64 {
	multiplier := 10000.0
	if isJPY(symbol) {
		multiplier = 100.0
	}
	return math.Round((ask-bid)*multiplier*10) / 10
}

func isJPY(symbol string) bool {
	return strings.Contains(symbol, "JPY")
}
