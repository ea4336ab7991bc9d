package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/plaid/plaid-go/v32/plaid"

	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/utils"
)

func (h *Handler) plaidConfigured(w http.ResponseWriter) bool {
	if h.plaid == nil {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrNotConfigured,
			Message: "Plaid is not configured. Set PLAID_CLIENT_ID and PLAID_SECRET.",
		})
		return false
	}
	return true
}

// CreatePlaidLink creates a Plaid Link token for the session user so the
// client can start the bank-linking flow.
func (h *Handler) CreatePlaidLink(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	if !h.plaidConfigured(w) {
		return
	}

	plaidUser := plaid.LinkTokenCreateRequestUser{
		ClientUserId: caller.OwnerID,
	}

	request := plaid.NewLinkTokenCreateRequest("Finance Tracker", "en", []plaid.CountryCode{plaid.COUNTRYCODE_US}, plaidUser)
	request.SetProducts([]plaid.Products{plaid.PRODUCTS_TRANSACTIONS})

	resp, _, err := h.plaid.PlaidApi.LinkTokenCreate(r.Context()).LinkTokenCreateRequest(*request).Execute()
	if err != nil {
		if plaidErr, ok := err.(plaid.GenericOpenAPIError); ok {
			logger.Error().Str("body", string(plaidErr.Body())).Msg("plaid link token error")
		}
		utils.WriteError(w, http.StatusBadGateway, models.APIError{
			Kind:    models.ErrUpstreamFailure,
			Message: "Failed to create link token",
		})
		return
	}

	response := struct {
		Status    string `json:"status"`
		LinkToken string `json:"link_token"`
	}{
		Status:    "success",
		LinkToken: resp.GetLinkToken(),
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// ExchangePlaidToken swaps the public token returned by Plaid Link for an
// access token and stores it on the session user.
func (h *Handler) ExchangePlaidToken(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	if !h.plaidConfigured(w) {
		return
	}

	body, apiErr := decodeBody(r)
	if apiErr != nil {
		utils.WriteError(w, http.StatusBadRequest, *apiErr)
		return
	}

	publicToken := stringField(body, "public_token")
	if publicToken == "" {
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:     models.ErrMissingFields,
			Message:  "public_token is required",
			Required: []string{"public_token"},
		})
		return
	}

	request := plaid.NewItemPublicTokenExchangeRequest(publicToken)
	resp, _, err := h.plaid.PlaidApi.ItemPublicTokenExchange(r.Context()).ItemPublicTokenExchangeRequest(*request).Execute()
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, models.APIError{
			Kind:    models.ErrUpstreamFailure,
			Message: "Failed to exchange public token",
		})
		return
	}

	if err := h.store.SetPlaidAccessToken(r.Context(), caller.OwnerID, resp.GetAccessToken()); err != nil {
		logger.Error().Err(err).Msg("access token save failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to store access token",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

// SyncPlaidTransactions pulls transactions from the user's linked bank
// account and writes each through the same validated create path as a manual
// entry: positive Plaid amounts become expenses, negative become income.
func (h *Handler) SyncPlaidTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	if !h.plaidConfigured(w) {
		return
	}

	user, err := h.store.GetUserByID(r.Context(), caller.OwnerID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to load user",
		})
		return
	}

	if user.PlaidAccessToken == "" {
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:    models.ErrNotFound,
			Message: "No linked bank account. Exchange a public token first.",
		})
		return
	}

	// The date range body is optional; default to the last 30 days.
	body := map[string]interface{}{}
	json.NewDecoder(r.Body).Decode(&body)

	endDate := stringField(body, "end_date")
	if endDate == "" {
		endDate = time.Now().UTC().Format("2006-01-02")
	}
	startDate := stringField(body, "start_date")
	if startDate == "" {
		startDate = time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")
	}

	request := plaid.NewTransactionsGetRequest(user.PlaidAccessToken, startDate, endDate)
	resp, _, err := h.plaid.PlaidApi.TransactionsGet(r.Context()).TransactionsGetRequest(*request).Execute()
	if err != nil {
		if plaidErr, ok := err.(plaid.GenericOpenAPIError); ok {
			logger.Error().Str("body", string(plaidErr.Body())).Msg("plaid transactions error")
		}
		utils.WriteError(w, http.StatusBadGateway, models.APIError{
			Kind:    models.ErrUpstreamFailure,
			Message: "Failed to fetch transactions from Plaid",
		})
		return
	}

	imported, skipped := 0, 0
	for _, plaidTx := range resp.GetTransactions() {
		tx, buildErr := buildTransaction(plaidImportBody(plaidTx), caller)
		if buildErr != nil {
			skipped++
			continue
		}

		if err := h.store.InsertTransaction(r.Context(), tx); err != nil {
			logger.Error().Err(err).Msg("imported transaction insert failed")
			skipped++
			continue
		}
		imported++
	}

	response := struct {
		Success  bool `json:"success"`
		Imported int  `json:"imported"`
		Skipped  int  `json:"skipped"`
	}{
		Success:  true,
		Imported: imported,
		Skipped:  skipped,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// plaidImportBody maps a Plaid transaction onto the same request shape the
// create endpoints accept, so imports share one validation path.
func plaidImportBody(plaidTx plaid.Transaction) map[string]interface{} {
	amount := plaidTx.GetAmount()
	txType := string(models.Expense)
	if amount < 0 {
		txType = string(models.Income)
		amount = -amount
	}

	category := "Uncategorized"
	if cats := plaidTx.GetCategory(); len(cats) > 0 {
		category = cats[0]
	}

	return map[string]interface{}{
		"title":    plaidTx.GetName(),
		"amount":   amount,
		"type":     txType,
		"category": category,
		"date":     plaidTx.GetDate(),
	}
}
