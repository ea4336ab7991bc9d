package main

import (
	"context"
	"net/http"
	"os"

	gorillacontext "github.com/gorilla/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fintrackhq/fintrack-backend/config"
	"github.com/fintrackhq/fintrack-backend/handlers"
	"github.com/fintrackhq/fintrack-backend/middleware"
	"github.com/fintrackhq/fintrack-backend/router"
	"github.com/fintrackhq/fintrack-backend/store"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load env file if present; real deployments set the environment directly.
	godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("configuration error")
	}

	client, err := config.ConnectToMongo(context.Background(), cfg.MongoURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	s := store.NewMongo(client, config.DatabaseName)
	h := handlers.New(s, cfg, config.NewPlaidClient(cfg))

	r := router.Router(h, cfg)
	r.Use(middleware.CORSMiddleware)

	logger.Info().Str("port", cfg.Port).Msg("server listening")
	if err := http.ListenAndServe(":"+cfg.Port, gorillacontext.ClearHandler(r)); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
