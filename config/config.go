package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DatabaseName = "fintrack"

// Config holds everything the server reads from the environment. It is built
// once at startup and injected into the handlers; nothing reads the
// environment after Load returns.
type Config struct {
	Port           string
	MongoURI       string
	SecretKey      string
	APIKey         string
	N8NWebhookURL  string
	CodeWebhookURL string
	PlaidClientID  string
	PlaidSecret    string
	DevMode        bool
}

// Load reads the environment and fails if any core variable is missing, so a
// broken deployment is caught before the first request rather than during it.
// Webhook and Plaid settings are optional; the endpoints that need them
// report NotConfigured when they are unset.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		MongoURI:       os.Getenv("MONGO_URI"),
		SecretKey:      os.Getenv("SECRET_KEY"),
		APIKey:         os.Getenv("API_KEY"),
		N8NWebhookURL:  os.Getenv("N8N_WEBHOOK_URL"),
		CodeWebhookURL: os.Getenv("CODE_WEBHOOK_URL"),
		PlaidClientID:  os.Getenv("PLAID_CLIENT_ID"),
		PlaidSecret:    os.Getenv("PLAID_SECRET"),
		DevMode:        os.Getenv("DEV_MODE") == "true",
	}

	if cfg.Port == "" {
		cfg.Port = "5001"
	}

	var missing []string
	if cfg.MongoURI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "SECRET_KEY")
	}
	if cfg.APIKey == "" {
		missing = append(missing, "API_KEY")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// ConnectToMongo dials the database, verifies the connection, and ensures the
// indexes the service relies on: a unique index on users.email and a lookup
// index on transactions.userId.
func ConnectToMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(DatabaseName)

	_, err = db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	_, err = db.Collection("transactions").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"userId": 1},
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}
