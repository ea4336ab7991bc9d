package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fintrackhq/fintrack-backend/helpers"
	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/store"
	"github.com/fintrackhq/fintrack-backend/utils"
)

const loginCodeTTL = 10 * time.Minute

// RequestLoginCode starts the passwordless sign-in flow: it generates a
// 6-digit code, stores its hash with an expiry, and delivers the code out of
// band through the configured delivery webhook. The code never appears in the
// response outside of dev mode.
func (h *Handler) RequestLoginCode(w http.ResponseWriter, r *http.Request) {
	body, apiErr := decodeBody(r)
	if apiErr != nil {
		utils.WriteError(w, http.StatusBadRequest, *apiErr)
		return
	}

	email := stringField(body, "email")
	if email == "" {
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:     models.ErrMissingFields,
			Message:  "Please enter your email address",
			Required: []string{"email"},
		})
		return
	}

	if h.cfg.CodeWebhookURL == "" && !h.cfg.DevMode {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrNotConfigured,
			Message: "CODE_WEBHOOK_URL not configured. Set it to your code delivery webhook URL.",
		})
		return
	}

	code, err := h.generateCode()
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrInternal,
			Message: "Failed to generate verification code",
		})
		return
	}

	hash, err := helpers.HashCode(code)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrInternal,
			Message: "Failed to generate verification code",
		})
		return
	}

	now := time.Now().UTC()
	record := models.LoginCode{
		Email:     email,
		CodeHash:  hash,
		ExpiresAt: now.Add(loginCodeTTL),
		CreatedAt: now,
	}

	if err := h.store.SaveLoginCode(r.Context(), record); err != nil {
		logger.Error().Err(err).Msg("login code save failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to store verification code",
		})
		return
	}

	if h.cfg.CodeWebhookURL != "" {
		if err := h.deliverCode(r, email, code); err != nil {
			logger.Error().Err(err).Msg("login code delivery failed")
			utils.WriteError(w, http.StatusBadGateway, models.APIError{
				Kind:    models.ErrUpstreamFailure,
				Message: "Failed to send verification code. Please try again.",
			})
			return
		}
	}

	response := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		DevCode string `json:"devCode,omitempty"`
	}{
		Success: true,
		Message: "Check your email for the 6-digit verification code!",
	}
	if h.cfg.DevMode && h.cfg.CodeWebhookURL == "" {
		response.DevCode = code
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) deliverCode(r *http.Request, email, code string) error {
	payload, err := json.Marshal(map[string]string{"email": email, "code": code})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.CodeWebhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New("delivery webhook returned " + resp.Status)
	}

	return nil
}

// VerifyLoginCode exchanges {email, code} for a session token. Codes are
// single-use: a successful exchange consumes the stored record.
func (h *Handler) VerifyLoginCode(w http.ResponseWriter, r *http.Request) {
	body, apiErr := decodeBody(r)
	if apiErr != nil {
		utils.WriteError(w, http.StatusBadRequest, *apiErr)
		return
	}

	email := stringField(body, "email")
	code := stringField(body, "code")
	if email == "" || code == "" {
		var missing []string
		if email == "" {
			missing = append(missing, "email")
		}
		if code == "" {
			missing = append(missing, "code")
		}
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:     models.ErrMissingFields,
			Message:  "Email and verification code are required",
			Required: missing,
		})
		return
	}

	if len(code) != helpers.CodeLength || !helpers.IsDigits(code) {
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:    models.ErrInvalidCode,
			Message: "Please enter the 6-digit code",
		})
		return
	}

	record, err := h.store.GetLoginCode(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrInvalidCode,
			Message: "Invalid verification code. Please try again.",
		})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("login code lookup failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to verify code",
		})
		return
	}

	if record.Expired(time.Now().UTC()) {
		h.store.DeleteLoginCode(r.Context(), email)
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrInvalidCode,
			Message: "Verification code expired. Please request a new one.",
		})
		return
	}

	if !helpers.CheckCode(record.CodeHash, code) {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrInvalidCode,
			Message: "Invalid verification code. Please try again.",
		})
		return
	}

	if err := h.store.DeleteLoginCode(r.Context(), email); err != nil {
		logger.Error().Err(err).Msg("login code consume failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to verify code",
		})
		return
	}

	user, err := h.store.UpsertUserByEmail(r.Context(), email)
	if err != nil {
		logger.Error().Err(err).Msg("user upsert failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to sign in",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, []byte(h.cfg.SecretKey))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to issue session token",
		})
		return
	}

	response := struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}{
		User:  user,
		Token: token,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}

// GetUserDetails returns the session user's own profile.
func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	caller, ok := sessionCaller(r)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, models.APIError{
			Kind:    models.ErrUnauthorized,
			Message: "Not authenticated",
		})
		return
	}

	user, err := h.store.GetUserByID(r.Context(), caller.OwnerID)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteError(w, http.StatusNotFound, models.APIError{
			Kind:    models.ErrNotFound,
			Message: "No user found",
		})
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("user lookup failed")
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrStoreFailure,
			Message: "Failed to load user",
		})
		return
	}

	response := struct {
		Status string      `json:"status"`
		User   models.User `json:"user"`
	}{
		Status: "success",
		User:   user,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}
