package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tradewire/mt5-stream/internal/bridge"
	"github.com/tradewire/mt5-stream/internal/model"
	"github.com/tradewire/mt5-stream/internal/version"
)

// Feed is the resilient data source consumed by read endpoints.
type Feed interface {
	Prices(ctx context.Context, symbols []string) (model.QuoteBook, bool, error)
	Account(ctx context.Context) (model.Account, bool, error)
	Positions(ctx context.Context) ([]model.Position, bool, error)
}

// Notifier receives the positions-changed signal after a successful
// trade. *live.Hub satisfies it.
type Notifier interface {
	NotifyPositionsChanged()
}

// Handler serves the /api/mt5 routes.
type Handler struct {
	bridge         *bridge.Client
	feed           Feed
	notifier       Notifier
	defaultSymbols []string
	logger         *slog.Logger
}

// NewHandler creates the REST handler.
func NewHandler(bc *bridge.Client, feed Feed, notifier Notifier, defaultSymbols []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		bridge:         bc,
		feed:           feed,
		notifier:       notifier,
		defaultSymbols: defaultSymbols,
		logger:         logger,
	}
}

// Register mounts all routes on the router.
func (h *Handler) Register(r *mux.Router) {
	api := r.PathPrefix("/api/mt5").Subrouter()
	api.HandleFunc("/connect", h.connect).Methods(http.MethodPost)
	api.HandleFunc("/disconnect", h.disconnect).Methods(http.MethodPost)
	api.HandleFunc("/account", h.account).Methods(http.MethodGet)
	api.HandleFunc("/prices", h.prices).Methods(http.MethodPost)
	api.HandleFunc("/positions", h.positions).Methods(http.MethodGet)
	api.HandleFunc("/history", h.history).Methods(http.MethodPost)
	api.HandleFunc("/trade/open", h.tradeOpen).Methods(http.MethodPost)
	api.HandleFunc("/trade/close", h.tradeClose).Methods(http.MethodPost)
	api.HandleFunc("/health", h.bridgeHealth).Methods(http.MethodGet)

	r.HandleFunc("/health", h.serviceHealth).Methods(http.MethodGet)
}

func (h *Handler) connect(w http.ResponseWriter, r *http.Request) {
	var creds bridge.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if creds.Account == 0 || creds.Password == "" || creds.Server == "" {
		writeError(w, http.StatusBadRequest, "Missing required credentials")
		return
	}

	result, err := h.bridge.Connect(r.Context(), creds)
	if err != nil {
		h.relayError(w, "connect", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.bridge.Disconnect(r.Context()); err != nil {
		h.relayError(w, "disconnect", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type pricesRequest struct {
	Symbols []string `json:"symbols"`
}

type pricesResponse struct {
	Prices   model.QuoteBook `json:"prices"`
	Degraded bool            `json:"degraded"`
}

func (h *Handler) prices(w http.ResponseWriter, r *http.Request) {
	var req pricesRequest
	if r.Body != nil {
		// An empty or absent body means the default symbol set.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = h.defaultSymbols
	}

	book, degraded, err := h.feed.Prices(r.Context(), symbols)
	if err != nil {
		h.relayError(w, "prices", err)
		return
	}
	writeJSON(w, http.StatusOK, pricesResponse{Prices: book, Degraded: degraded})
}

type accountResponse struct {
	model.Account
	Degraded bool `json:"degraded"`
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	account, degraded, err := h.feed.Account(r.Context())
	if err != nil {
		h.relayError(w, "account", err)
		return
	}
	writeJSON(w, http.StatusOK, accountResponse{Account: account, Degraded: degraded})
}

type positionsResponse struct {
	Positions []model.Position `json:"positions"`
	Degraded  bool             `json:"degraded"`
}

func (h *Handler) positions(w http.ResponseWriter, r *http.Request) {
	positions, degraded, err := h.feed.Positions(r.Context())
	if err != nil {
		h.relayError(w, "positions", err)
		return
	}
	writeJSON(w, http.StatusOK, positionsResponse{Positions: positions, Degraded: degraded})
}

type historyRequest struct {
	Days int `json:"days"`
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	var req historyRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Days <= 0 {
		req.Days = 30
	}

	history, err := h.bridge.GetHistory(r.Context(), req.Days)
	if err != nil {
		h.relayError(w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

func (h *Handler) tradeOpen(w http.ResponseWriter, r *http.Request) {
	var req model.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Symbol == "" || req.Type == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters")
		return
	}
	if req.Volume == 0 {
		req.Volume = 0.01
	}
	if req.Comment == "" {
		req.Comment = "Web Trade"
	}

	result, err := h.bridge.OpenTrade(r.Context(), req)
	if err != nil {
		h.relayError(w, "trade open", err)
		return
	}

	// Streaming clients see the new position right away.
	h.notifier.NotifyPositionsChanged()
	writeJSON(w, http.StatusOK, result)
}

type tradeCloseRequest struct {
	Ticket int64 `json:"ticket"`
}

func (h *Handler) tradeClose(w http.ResponseWriter, r *http.Request) {
	var req tradeCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Ticket == 0 {
		writeError(w, http.StatusBadRequest, "Missing ticket number")
		return
	}

	result, err := h.bridge.CloseTrade(r.Context(), req.Ticket)
	if err != nil {
		h.relayError(w, "trade close", err)
		return
	}

	h.notifier.NotifyPositionsChanged()
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) bridgeHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health, err := h.bridge.GetHealth(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status": "unhealthy",
			"error":  "bridge is not responding",
		})
		return
	}
	writeJSON(w, http.StatusOK, health)
}

func (h *Handler) serviceHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "healthy"
	bridgeStatus := "connected"
	code := http.StatusOK

	if _, err := h.bridge.GetHealth(ctx); err != nil {
		status = "degraded"
		bridgeStatus = "unreachable"
	}

	writeJSON(w, code, map[string]any{
		"status":    status,
		"bridge":    bridgeStatus,
		"version":   version.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// relayError maps a bridge failure onto the response: typed API errors
// keep their upstream status code, anything else reads as a bad
// gateway.
func (h *Handler) relayError(w http.ResponseWriter, op string, err error) {
	h.logger.Warn("bridge call failed", "op", op, "error", err)

	var apiErr *bridge.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "Failed to reach MT5 bridge")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
