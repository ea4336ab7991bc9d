package handlers

import (
	"net/http"
	"os"

	"github.com/dgrijalva/jwt-go"
	cont "github.com/gorilla/context"
	"github.com/plaid/plaid-go/v32/plaid"
	"github.com/rs/zerolog"

	"github.com/fintrackhq/fintrack-backend/config"
	"github.com/fintrackhq/fintrack-backend/helpers"
	"github.com/fintrackhq/fintrack-backend/middleware"
	"github.com/fintrackhq/fintrack-backend/store"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Handler carries the injected collaborators every endpoint needs: the
// persistence layer, the loaded configuration, and the optional Plaid client.
type Handler struct {
	store        store.Store
	cfg          *config.Config
	plaid        *plaid.APIClient
	httpClient   *http.Client
	generateCode func() (string, error)
}

func New(s store.Store, cfg *config.Config, plaidClient *plaid.APIClient) *Handler {
	return &Handler{
		store:        s,
		cfg:          cfg,
		plaid:        plaidClient,
		httpClient:   http.DefaultClient,
		generateCode: helpers.GenerateCode,
	}
}

type CallerMode int

const (
	// CallerSession identifies requests authenticated by a verified user
	// session. Any client-supplied userId is ignored in this mode.
	CallerSession CallerMode = iota
	// CallerTrusted identifies machine-to-machine requests authenticated by
	// the shared API key, which must name the owner explicitly.
	CallerTrusted
)

// CallerContext is the owner identity for a request, resolved exactly once at
// the boundary and passed to every downstream operation.
type CallerContext struct {
	Mode    CallerMode
	OwnerID string
}

// sessionCaller reads the verified session claims placed in the request
// context by the authentication middleware.
func sessionCaller(r *http.Request) (CallerContext, bool) {
	claims, ok := cont.Get(r, middleware.UserContextKey).(jwt.MapClaims)
	if !ok {
		return CallerContext{}, false
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return CallerContext{}, false
	}

	return CallerContext{Mode: CallerSession, OwnerID: userID}, true
}
