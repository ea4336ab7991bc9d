package router

import (
	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack-backend/config"
	"github.com/fintrackhq/fintrack-backend/handlers"
	"github.com/fintrackhq/fintrack-backend/middleware"
)

func registerAuthRoutes(r *mux.Router, h *handlers.Handler, cfg *config.Config) {
	r.HandleFunc("/api/v1/auth/code", h.RequestLoginCode).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/auth/verify", h.VerifyLoginCode).Methods("POST", "OPTIONS")

	restricted := r.PathPrefix("/api/v1/auth/me").Subrouter()
	restricted.Use(middleware.Authentication([]byte(cfg.SecretKey)))
	restricted.HandleFunc("", h.GetUserDetails).Methods("GET", "OPTIONS")
}
