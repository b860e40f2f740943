package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tradewire/mt5-stream/internal/model"
)

// Credentials identify an MT5 account.
type Credentials struct {
	Account  int64  `json:"account"`
	Password string `json:"password"`
	Server   string `json:"server"`
}

// ConnectResult is the bridge's response to a successful login.
type ConnectResult struct {
	Success     bool    `json:"success"`
	Account     int64   `json:"account"`
	Name        string  `json:"name"`
	Server      string  `json:"server"`
	Currency    string  `json:"currency"`
	Balance     float64 `json:"balance"`
	Equity      float64 `json:"equity"`
	Margin      float64 `json:"margin"`
	MarginFree  float64 `json:"margin_free"`
	MarginLevel float64 `json:"margin_level"`
	Leverage    int     `json:"leverage"`
}

// Health is the bridge's health report.
type Health struct {
	Status         string `json:"status"`
	MT5Initialized bool   `json:"mt5_initialized"`
	Timestamp      string `json:"timestamp"`
}

type pricesRequest struct {
	Symbols []string `json:"symbols"`
}

type pricesResponse struct {
	Prices model.QuoteBook `json:"prices"`
}

type positionsResponse struct {
	Positions []model.Position `json:"positions"`
}

type historyRequest struct {
	Days int `json:"days"`
}

type historyResponse struct {
	History []model.HistoryDeal `json:"history"`
}

type closeRequest struct {
	Ticket int64 `json:"ticket"`
}

// Connect logs the bridge into an MT5 account.
func (c *Client) Connect(ctx context.Context, creds Credentials) (ConnectResult, error) {
	var result ConnectResult
	if err := c.post(ctx, "/connect", creds, &result); err != nil {
		return ConnectResult{}, err
	}
	return result, nil
}

// Disconnect shuts down the bridge's MT5 session.
func (c *Client) Disconnect(ctx context.Context) error {
	return c.post(ctx, "/disconnect", nil, nil)
}

// GetPrices fetches current quotes for the given symbols.
// Symbols the terminal does not know are absent from the result.
func (c *Client) GetPrices(ctx context.Context, symbols []string) (model.QuoteBook, error) {
	var resp pricesResponse
	if err := c.post(ctx, "/symbols/prices", pricesRequest{Symbols: symbols}, &resp); err != nil {
		return nil, err
	}
	return resp.Prices, nil
}

// GetAccount fetches the current account snapshot.
func (c *Client) GetAccount(ctx context.Context) (model.Account, error) {
	var account model.Account
	if err := c.get(ctx, "/account/info", &account); err != nil {
		return model.Account{}, err
	}
	return account, nil
}

// GetPositions fetches all open positions.
func (c *Client) GetPositions(ctx context.Context) ([]model.Position, error) {
	var resp positionsResponse
	if err := c.get(ctx, "/positions", &resp); err != nil {
		return nil, err
	}
	if resp.Positions == nil {
		resp.Positions = []model.Position{}
	}
	return resp.Positions, nil
}

// GetHistory fetches closed deals from the last n days.
func (c *Client) GetHistory(ctx context.Context, days int) ([]model.HistoryDeal, error) {
	var resp historyResponse
	if err := c.post(ctx, "/orders/history", historyRequest{Days: days}, &resp); err != nil {
		return nil, err
	}
	if resp.History == nil {
		resp.History = []model.HistoryDeal{}
	}
	return resp.History, nil
}

// OpenTrade places a market order.
func (c *Client) OpenTrade(ctx context.Context, req model.TradeRequest) (model.TradeResult, error) {
	var result model.TradeResult
	if err := c.post(ctx, "/trade/open", req, &result); err != nil {
		return model.TradeResult{}, err
	}
	return result, nil
}

// CloseTrade closes an open position by ticket.
func (c *Client) CloseTrade(ctx context.Context, ticket int64) (model.CloseResult, error) {
	var result model.CloseResult
	if err := c.post(ctx, "/trade/close", closeRequest{Ticket: ticket}, &result); err != nil {
		return model.CloseResult{}, err
	}
	return result, nil
}

// GetHealth fetches the bridge's health report. Health checks are not
// retried; a slow bridge should read as unhealthy, not hang the probe.
func (c *Client) GetHealth(ctx context.Context) (Health, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return Health{}, err
	}
	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return Health{}, fmt.Errorf("unmarshal response: %w", err)
	}
	return h, nil
}
