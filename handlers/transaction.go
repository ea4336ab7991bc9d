package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/store"
	"github.com/fintrackhq/fintrack-backend/utils"
)

var createFields = []string{"title", "amount", "type", "category", "date"}

func decodeBody(r *http.Request) (map[string]interface{}, *models.APIError) {
	var body map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, &models.APIError{
			Kind:    models.ErrInvalidJSON,
			Message: "Request body must be a JSON object",
		}
	}
	return body, nil
}

func stringField(body map[string]interface{}, key string) string {
	s, _ := body[key].(string)
	return s
}

func parseAmount(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// buildTransaction runs the full validation sequence over a decoded request
// body and returns the normalized record ready for storage. Validation fails
// fast: the first violated rule wins and nothing is written.
func buildTransaction(body map[string]interface{}, caller CallerContext) (models.Transaction, *models.APIError) {
	required := createFields
	if caller.Mode == CallerTrusted {
		required = append(append([]string{}, createFields...), "userId")
	}

	var missing []string
	for _, field := range required {
		v, present := body[field]
		if !present {
			missing = append(missing, field)
			continue
		}
		if field == "amount" {
			continue
		}
		if s, ok := v.(string); !ok || s == "" {
			missing = append(missing, field)
		}
	}

	if len(missing) > 0 {
		received := make([]string, 0, len(body))
		for k := range body {
			received = append(received, k)
		}
		sort.Strings(received)

		message := fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", "))
		if _, hasEmail := body["userEmail"]; hasEmail && caller.Mode == CallerTrusted {
			message += ". Email-based lookup is not supported; provide userId directly and maintain your own identifier mapping."
		}

		return models.Transaction{}, &models.APIError{
			Kind:     models.ErrMissingFields,
			Message:  message,
			Required: required,
			Received: received,
		}
	}

	amount, ok := parseAmount(body["amount"])
	if !ok || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return models.Transaction{}, &models.APIError{
			Kind:    models.ErrInvalidAmount,
			Message: "Invalid amount. Must be a positive number.",
		}
	}

	txType := stringField(body, "type")
	if !models.ValidType(txType) {
		return models.Transaction{}, &models.APIError{
			Kind:    models.ErrInvalidType,
			Message: `Invalid type. Must be "income" or "expense".`,
		}
	}

	if caller.OwnerID == "" {
		return models.Transaction{}, &models.APIError{
			Kind:    models.ErrMissingOwner,
			Message: "Owner identity is required",
		}
	}

	date, err := parseDate(stringField(body, "date"))
	if err != nil {
		return models.Transaction{}, &models.APIError{
			Kind:    models.ErrInvalidDate,
			Message: "Invalid date format. Use YYYY-MM-DD format.",
		}
	}

	return models.Transaction{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(stringField(body, "title")),
		Amount:    amount,
		Type:      models.TransactionType(txType),
		Category:  strings.TrimSpace(stringField(body, "category")),
		Date:      date.UTC(),
		UserID:    caller.OwnerID,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CreateTransaction is the trusted-caller write endpoint. The owner must be
// named explicitly as userId in the body; there is no session to resolve one
// from.
func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, apiErr := decodeBody(r)
	if apiErr != nil {
		utils.WriteError(w, http.StatusBadRequest, *apiErr)
		return
	}

	caller := CallerContext{Mode: CallerTrusted, OwnerID: stringField(body, "userId")}
	h.createTransaction(w, r, body, caller)
}

// CreateMyTransaction is the session write endpoint. The owner is always the
// session user; a userId in the body is overwritten, never trusted.
func (h *Handler) CreateMyTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	body, apiErr := decodeBody(r)
	if apiErr != nil {
		utils.WriteError(w, http.StatusBadRequest, *apiErr)
		return
	}

	h.createTransaction(w, r, body, caller)
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request, body map[string]interface{}, caller CallerContext) {
	tx, apiErr := buildTransaction(body, caller)
	if apiErr != nil {
		utils.WriteError(w, http.StatusBadRequest, *apiErr)
		return
	}

	if err := h.store.InsertTransaction(r.Context(), tx); err != nil {
		logger.Error().Err(err).Str("userId", tx.UserID).Msg("transaction insert failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to create transaction",
		})
		return
	}

	response := struct {
		Success       bool                       `json:"success"`
		Message       string                     `json:"message"`
		TransactionID string                     `json:"transactionId"`
		Transaction   models.TransactionResponse `json:"transaction"`
	}{
		Success:       true,
		Message:       "Transaction created successfully",
		TransactionID: tx.ID,
		Transaction:   tx.Response(),
	}

	utils.WriteJSON(w, http.StatusCreated, response)
}

// ListTransactions is the trusted-caller read endpoint, scoped to the userId
// named in the query.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:    models.ErrMissingOwner,
			Message: "Missing required parameter: userId",
		})
		return
	}

	caller := CallerContext{Mode: CallerTrusted, OwnerID: userID}
	h.listTransactions(w, r, caller)
}

func (h *Handler) ListMyTransactions(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	h.listTransactions(w, r, caller)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request, caller CallerContext) {
	opts := store.ListOptions{
		Limit: queryInt(r, "limit"),
		Page:  queryInt(r, "page"),
	}

	txs, count, err := h.store.ListTransactions(r.Context(), caller.OwnerID, opts)
	if err != nil {
		logger.Error().Err(err).Str("userId", caller.OwnerID).Msg("transaction query failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to query transactions",
		})
		return
	}

	responses := make([]models.TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, tx.Response())
	}

	response := struct {
		Success      bool                         `json:"success"`
		Transactions []models.TransactionResponse `json:"transactions"`
		Count        int64                        `json:"count"`
	}{
		Success:      true,
		Transactions: responses,
		Count:        count,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// DeleteTransaction removes one of the session user's own transactions. A
// missing id and another user's id are indistinguishable to the caller.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	id := mux.Vars(r)["id"]

	err := h.store.DeleteTransaction(r.Context(), id, caller.OwnerID)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, models.APIError{
			Kind:    models.ErrNotFound,
			Message: "Transaction not found",
		})
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("id", id).Msg("transaction delete failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to delete transaction",
		})
		return
	}

	utils.WriteJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
	}{Success: true})
}

// TransactionSummary returns the dashboard aggregates for the session user:
// income and expense totals, balance, and the per-category expense breakdown.
func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	summary, err := h.store.SummarizeTransactions(r.Context(), caller.OwnerID)
	if err != nil {
		logger.Error().Err(err).Str("userId", caller.OwnerID).Msg("summary query failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to summarize transactions",
		})
		return
	}

	response := struct {
		Success bool           `json:"success"`
		Summary models.Summary `json:"summary"`
	}{
		Success: true,
		Summary: summary,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func queryInt(r *http.Request, key string) int64 {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
