package model

import (
	"encoding/json"
	"testing"
)

func TestPipSize(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"EURUSD", 0.0001},
		{"GBPUSD", 0.0001},
		{"USDJPY", 0.01},
		{"EURJPY", 0.01},
		{"XAUUSD", 0.0001},
	}

	for _, tt := range tests {
		if got := PipSize(tt.symbol); got != tt.want {
			t.Errorf("PipSize(%q) = %v, want %v", tt.symbol, got, tt.want)
		}
	}
}

func TestSpreadPips(t *testing.T) {
	tests := []struct {
		symbol   string
		bid, ask float64
		want     float64
	}{
		{"EURUSD", 1.0842, 1.0844, 2.0},
		{"USDJPY", 149.82, 149.84, 2.0},
		{"GBPUSD", 1.2655, 1.26555, 0.5},
	}

	for _, tt := range tests {
		if got := SpreadPips(tt.symbol, tt.bid, tt.ask); got != tt.want {
			t.Errorf("SpreadPips(%q, %v, %v) = %v, want %v", tt.symbol, tt.bid, tt.ask, got, tt.want)
		}
	}
}

func TestQuoteJSON(t *testing.T) {
	q := Quote{
		Symbol: "EURUSD",
		Bid:    1.0842,
		Ask:    1.0844,
		Last:   1.0842,
		Spread: 2.0,
		Time:   "2024-01-02T15:04:05",
	}

	data, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	for _, key := range []string{"symbol", "bid", "ask", "last", "spread", "time"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("quote JSON missing key %q", key)
		}
	}
}

func TestPositionJSON(t *testing.T) {
	p := Position{
		Ticket: 84210341,
		Symbol: "EURUSD",
		Type:   SideBuy,
		Volume: 0.10,
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded["type"] != "BUY" {
		t.Errorf("type = %v, want BUY", decoded["type"])
	}
	for _, key := range []string{"ticket", "symbol", "volume", "price_open", "price_current", "sl", "tp", "profit", "swap", "commission"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("position JSON missing key %q", key)
		}
	}
}
