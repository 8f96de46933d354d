package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRouter creates and configures the HTTP router.
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()

	r.Use(h.RecoveryMiddleware)
	r.Use(CORSMiddleware)
	r.Use(h.LoggingMiddleware)

	// Public routes
	r.HandleFunc("/", h.ServerInfo).Methods("GET")
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	// Token issuance for the forum backend
	api.HandleFunc("/auth/token", h.IssueToken).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(h.AuthMiddleware)

	// Wallet
	protected.HandleFunc("/wallet/balance", h.GetBalance).Methods("GET")
	protected.HandleFunc("/wallet/transactions", h.GetTransactions).Methods("GET")

	// Games
	protected.HandleFunc("/games", h.GetGames).Methods("GET")
	protected.HandleFunc("/games/history", h.GetHistory).Methods("GET")
	protected.HandleFunc("/games/{type}/session", h.GetSessionState).Methods("GET")
	protected.HandleFunc("/games/{type}/bets", h.PlaceBet).Methods("POST")
	protected.HandleFunc("/games/{type}/bets", h.ClearBets).Methods("DELETE")
	protected.HandleFunc("/games/{type}/resolve", h.Resolve).Methods("POST")

	// Blackjack hand actions
	protected.HandleFunc("/games/blackjack/deal", h.Deal).Methods("POST")
	protected.HandleFunc("/games/blackjack/hit", h.Hit).Methods("POST")
	protected.HandleFunc("/games/blackjack/stand", h.Stand).Methods("POST")
	protected.HandleFunc("/games/blackjack/double", h.DoubleDown).Methods("POST")

	// Admin
	protected.HandleFunc("/admin/games/{type}", h.SetGameEnabled).Methods("PUT")
	protected.HandleFunc("/admin/payouts/sweep", h.SweepOwedPayouts).Methods("POST")
	protected.HandleFunc("/admin/audit", h.GetAuditEvents).Methods("GET")

	// WebSocket event stream
	protected.HandleFunc("/ws", h.HandleWebSocket).Methods("GET")

	return r
}

// NotFoundHandler handles 404 errors.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
}
