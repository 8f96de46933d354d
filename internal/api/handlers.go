// Package api provides the HTTP surface of the wagering engine: wager
// lifecycle endpoints per game, balance and history lookups, and a
// WebSocket stream of reveal and settlement events.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/audit"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/auth"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/domain"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/event"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/game"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/ledger"
	"github.com/chrishy1492/HKERS-NEWS-sub001/internal/rng"
)

// TransactionLister serves the wallet history endpoint. The SQL ledger
// implements it; a remote ledger deployment leaves it nil and the
// endpoint reports the history as unavailable.
type TransactionLister interface {
	Transactions(ctx context.Context, playerID string, limit int) ([]*domain.Transaction, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	auth    *auth.Service
	ledger  ledger.Ledger
	txs     TransactionLister
	manager *game.Manager
	rng     *rng.Service
	audit   *audit.Service
	bus     *event.Bus
	log     zerolog.Logger
}

// New creates the API handler.
func New(authSvc *auth.Service, lgr ledger.Ledger, txs TransactionLister, manager *game.Manager,
	rngSvc *rng.Service, auditSvc *audit.Service, bus *event.Bus, log zerolog.Logger) *Handler {
	return &Handler{
		auth:    authSvc,
		ledger:  lgr,
		txs:     txs,
		manager: manager,
		rng:     rngSvc,
		audit:   auditSvc,
		bus:     bus,
		log:     log,
	}
}

// Response helpers

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondGameError maps engine errors onto HTTP statuses.
func respondGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		respondError(w, http.StatusNotFound, "GAME_NOT_FOUND", "Unknown game")
	case errors.Is(err, game.ErrGameDisabled):
		respondError(w, http.StatusForbidden, "GAME_DISABLED", "Game is disabled")
	case errors.Is(err, game.ErrInvalidSelector):
		respondError(w, http.StatusBadRequest, "INVALID_SELECTOR", "Invalid bet selector")
	case errors.Is(err, game.ErrInvalidBetAmount):
		respondError(w, http.StatusBadRequest, "INVALID_AMOUNT", "Bet amount outside table limits")
	case errors.Is(err, game.ErrNoActiveBets):
		respondError(w, http.StatusBadRequest, "NO_ACTIVE_BETS", "No bets placed")
	case errors.Is(err, game.ErrAlreadyResolved):
		respondError(w, http.StatusConflict, "ALREADY_RESOLVED", "Round already resolved")
	case errors.Is(err, game.ErrBetsLocked):
		respondError(w, http.StatusConflict, "BETS_LOCKED", "Bets are locked for this round")
	case errors.Is(err, game.ErrRoundInPlay):
		respondError(w, http.StatusConflict, "ROUND_IN_PLAY", "Round is still in play")
	case errors.Is(err, game.ErrNotBlackjack):
		respondError(w, http.StatusBadRequest, "NOT_BLACKJACK", "Action only valid for blackjack")
	case errors.Is(err, game.ErrNoHandInPlay):
		respondError(w, http.StatusConflict, "NO_HAND", "No hand in play")
	case errors.Is(err, game.ErrDoubleNotAllowed):
		respondError(w, http.StatusConflict, "DOUBLE_NOT_ALLOWED", "Double down requires exactly two cards")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		respondError(w, http.StatusPaymentRequired, "INSUFFICIENT_FUNDS", "Not enough points")
	case errors.Is(err, ledger.ErrPlayerNotFound):
		respondError(w, http.StatusNotFound, "PLAYER_NOT_FOUND", "No point account for player")
	case errors.Is(err, ledger.ErrUnavailable):
		respondError(w, http.StatusServiceUnavailable, "LEDGER_UNAVAILABLE", "Point ledger unavailable")
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// === Health & Info ===

// HealthCheck handles GET /health and includes the RNG self-test.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	rngHealth, err := h.rng.HealthCheck()
	status := "healthy"
	if err != nil || (rngHealth != nil && !rngHealth.Healthy) {
		status = "degraded"
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"status":     status,
		"rng_status": rngHealth,
	})
}

// ServerInfo handles GET /.
func (h *Handler) ServerInfo(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":        "casino-engine",
		"version":     "1.0.0",
		"description": "Forum casino wagering engine",
	})
}

// === Authentication ===

// IssueToken handles POST /api/v1/auth/token. The forum backend calls
// it with the shared secret already established; the returned JWT is
// what the member's client presents on every other endpoint.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"player_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "player_id required")
		return
	}

	token, err := h.auth.IssueToken(req.PlayerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token":     token,
		"player_id": req.PlayerID,
	})
}

// === Wallet ===

// GetBalance handles GET /api/v1/wallet/balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())

	balance, err := h.ledger.Balance(r.Context(), playerID)
	if err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"player_id": playerID,
		"points":    balance,
	})
}

// GetTransactions handles GET /api/v1/wallet/transactions.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	if h.txs == nil {
		respondError(w, http.StatusNotImplemented, "NO_HISTORY", "Transaction history not available")
		return
	}

	playerID := playerFromContext(r.Context())
	limit := queryInt(r, "limit", 20)

	txs, err := h.txs.Transactions(r.Context(), playerID, limit)
	if err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, txs)
}

// === Games ===

// GetGames handles GET /api/v1/games.
func (h *Handler) GetGames(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.Games())
}

// GetHistory handles GET /api/v1/games/history.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	playerID := playerFromContext(r.Context())
	limit := queryInt(r, "limit", 20)

	rounds, err := h.manager.Rounds(r.Context(), playerID, limit)
	if err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, rounds)
}

// GetSessionState handles GET /api/v1/games/{type}/session.
func (h *Handler) GetSessionState(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"state":        s.State(),
		"bets":         s.Bets(),
		"total_staked": s.TotalStaked(),
	})
}

// PlaceBet handles POST /api/v1/games/{type}/bets.
func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind     domain.BetKind `json:"kind"`
		Selector string         `json:"selector"`
		Amount   int64          `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := s.PlaceBet(r.Context(), req.Kind, req.Selector, req.Amount); err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"state":        s.State(),
		"bets":         s.Bets(),
		"total_staked": s.TotalStaked(),
	})
}

// ClearBets handles DELETE /api/v1/games/{type}/bets.
func (h *Handler) ClearBets(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.ClearBets(r.Context()); err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"state": s.State(),
	})
}

// Resolve handles POST /api/v1/games/{type}/resolve for every game
// except blackjack.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	outcome, payout, err := s.Resolve(r.Context())
	if err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"outcome": outcome,
		"payout":  payout,
	})
}

// Deal handles POST /api/v1/games/blackjack/deal.
func (h *Handler) Deal(w http.ResponseWriter, r *http.Request) {
	h.blackjackAction(w, r, (*game.Session).Deal)
}

// Hit handles POST /api/v1/games/blackjack/hit.
func (h *Handler) Hit(w http.ResponseWriter, r *http.Request) {
	h.blackjackAction(w, r, (*game.Session).Hit)
}

// Stand handles POST /api/v1/games/blackjack/stand.
func (h *Handler) Stand(w http.ResponseWriter, r *http.Request) {
	h.blackjackAction(w, r, (*game.Session).Stand)
}

// DoubleDown handles POST /api/v1/games/blackjack/double.
func (h *Handler) DoubleDown(w http.ResponseWriter, r *http.Request) {
	h.blackjackAction(w, r, (*game.Session).DoubleDown)
}

func (h *Handler) blackjackAction(w http.ResponseWriter, r *http.Request,
	action func(*game.Session, context.Context) (*game.BlackjackOutcome, *domain.PayoutResult, error)) {

	playerID := playerFromContext(r.Context())
	s, err := h.manager.Session(playerID, domain.GameBlackjack)
	if err != nil {
		respondGameError(w, err)
		return
	}

	hand, payout, err := action(s, r.Context())
	if err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"hand":   hand,
		"payout": payout,
		"state":  s.State(),
	})
}

// === Admin ===

// SetGameEnabled handles PUT /api/v1/admin/games/{type}.
func (h *Handler) SetGameEnabled(w http.ResponseWriter, r *http.Request) {
	gt := domain.GameType(mux.Vars(r)["type"])

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.manager.SetEnabled(r.Context(), gt, req.Enabled); err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"game":    gt,
		"enabled": req.Enabled,
	})
}

// SweepOwedPayouts handles POST /api/v1/admin/payouts/sweep.
func (h *Handler) SweepOwedPayouts(w http.ResponseWriter, r *http.Request) {
	paid, err := h.manager.PayOwed(r.Context())
	if err != nil {
		respondGameError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"paid": paid,
	})
}

// GetAuditEvents handles GET /api/v1/admin/audit.
func (h *Handler) GetAuditEvents(w http.ResponseWriter, r *http.Request) {
	filter := &audit.EventFilter{
		PlayerID: r.URL.Query().Get("player_id"),
		Type:     r.URL.Query().Get("type"),
		Limit:    queryInt(r, "limit", 50),
	}

	events, err := h.audit.GetEvents(r.Context(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "AUDIT_ERROR", "Failed to query audit events")
		return
	}

	respondJSON(w, http.StatusOK, events)
}

// session resolves the player's session for the game in the URL.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*game.Session, bool) {
	playerID := playerFromContext(r.Context())
	gt := domain.GameType(mux.Vars(r)["type"])

	s, err := h.manager.Session(playerID, gt)
	if err != nil {
		respondGameError(w, err)
		return nil, false
	}
	return s, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
