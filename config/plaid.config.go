package config

import (
	"github.com/plaid/plaid-go/v32/plaid"
)

// NewPlaidClient builds a sandbox Plaid client from the loaded configuration.
// Returns nil when Plaid credentials are not configured; the import endpoints
// report NotConfigured in that case.
func NewPlaidClient(cfg *Config) *plaid.APIClient {
	if cfg.PlaidClientID == "" || cfg.PlaidSecret == "" {
		return nil
	}

	configuration := plaid.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", cfg.PlaidClientID)
	configuration.AddDefaultHeader("PLAID-SECRET", cfg.PlaidSecret)
	configuration.UseEnvironment(plaid.Sandbox)

	return plaid.NewAPIClient(configuration)
}
