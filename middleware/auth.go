package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/context"
	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/utils"
)

// UserContextKey is the gorilla/context key under which verified session
// claims are stored for downstream handlers.
const UserContextKey = "user"

// Authentication verifies the Bearer session token and stores its claims in
// the request context. Requests without a valid token never reach a handler.
func Authentication(secret []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.WriteError(w, http.StatusUnauthorized, models.APIError{
					Kind:    models.ErrUnauthorized,
					Message: "Missing Authorization header",
				})
				return
			}

			tokenParts := strings.Split(tokenString, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				utils.WriteError(w, http.StatusUnauthorized, models.APIError{
					Kind:    models.ErrUnauthorized,
					Message: "Invalid Authorization header",
				})
				return
			}

			claims, err := utils.VerifyToken(tokenParts[1], secret)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, models.APIError{
					Kind:    models.ErrUnauthorized,
					Message: "Invalid token",
				})
				return
			}

			context.Set(r, UserContextKey, claims)
			next.ServeHTTP(w, r)
		})
	}
}
