package router

import (
	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack-backend/config"
	"github.com/fintrackhq/fintrack-backend/handlers"
)

// Router wires every endpoint: the public auth flow, the API-key-guarded
// trusted-caller surface, and the session-guarded user surface.
func Router(h *handlers.Handler, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	registerAuthRoutes(r, h, cfg)
	registerTransactionRoutes(r, h, cfg)

	return r
}
