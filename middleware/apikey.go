package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/utils"
)

// APIKey guards the trusted-caller endpoints with a shared secret, accepted
// either as an X-API-Key header or as a Bearer credential.
func APIKey(expected string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if expected == "" {
				utils.WriteError(w, http.StatusInternalServerError, models.APIError{
					Kind:    models.ErrNotConfigured,
					Message: "API_KEY environment variable is not set",
				})
				return
			}

			key := r.Header.Get("X-API-Key")
			if key == "" {
				key = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			}

			if key != expected {
				utils.WriteError(w, http.StatusUnauthorized, models.APIError{
					Kind:    models.ErrUnauthorized,
					Message: "Invalid or missing API key",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
