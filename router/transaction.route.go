package router

import (
	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack-backend/config"
	"github.com/fintrackhq/fintrack-backend/handlers"
	"github.com/fintrackhq/fintrack-backend/middleware"
)

func registerTransactionRoutes(r *mux.Router, h *handlers.Handler, cfg *config.Config) {
	// Trusted-caller surface: shared API key, explicit userId.
	trusted := r.PathPrefix("/api/v1/transactions").Subrouter()
	trusted.Use(middleware.APIKey(cfg.APIKey))
	trusted.HandleFunc("", h.CreateTransaction).Methods("POST", "OPTIONS")
	trusted.HandleFunc("", h.ListTransactions).Methods("GET", "OPTIONS")

	// Automation webhook proxy, also behind the API key.
	proxy := r.PathPrefix("/api/v1/trigger-n8n").Subrouter()
	proxy.Use(middleware.APIKey(cfg.APIKey))
	proxy.HandleFunc("", h.TriggerWebhook).Methods("POST", "OPTIONS")

	// Session surface: owner identity always comes from the verified token.
	restricted := r.PathPrefix("/api/v1/me").Subrouter()
	restricted.Use(middleware.Authentication([]byte(cfg.SecretKey)))
	restricted.HandleFunc("/transactions", h.CreateMyTransaction).Methods("POST", "OPTIONS")
	restricted.HandleFunc("/transactions", h.ListMyTransactions).Methods("GET", "OPTIONS")
	restricted.HandleFunc("/transactions/summary", h.TransactionSummary).Methods("GET", "OPTIONS")
	restricted.HandleFunc("/transactions/{id}", h.DeleteTransaction).Methods("DELETE", "OPTIONS")
	restricted.HandleFunc("/plaid/link", h.CreatePlaidLink).Methods("POST", "OPTIONS")
	restricted.HandleFunc("/plaid/exchange", h.ExchangePlaidToken).Methods("POST", "OPTIONS")
	restricted.HandleFunc("/plaid/sync", h.SyncPlaidTransactions).Methods("POST", "OPTIONS")
}
