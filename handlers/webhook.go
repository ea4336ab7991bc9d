package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/fintrackhq/fintrack-backend/models"
	"github.com/fintrackhq/fintrack-backend/utils"
)

// TriggerWebhook forwards the request body verbatim to the configured
// automation webhook and passes the upstream response through. The gateway
// adds no retries; an upstream failure surfaces immediately with the
// upstream's own status and body.
func (h *Handler) TriggerWebhook(w http.ResponseWriter, r *http.Request) {
	if h.cfg.N8NWebhookURL == "" {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrNotConfigured,
			Message: "N8N_WEBHOOK_URL not configured. Set it to your n8n webhook URL.",
		})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		utils.WriteError(w, http.StatusBadRequest, models.APIError{
			Kind:    models.ErrInvalidJSON,
			Message: "Request body must be valid JSON",
		})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.cfg.N8NWebhookURL, bytes.NewReader(body))
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, models.APIError{
			Kind:    models.ErrUpstreamFailure,
			Message: "Failed to trigger workflow",
		})
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("webhook request failed")
		utils.WriteError(w, http.StatusBadGateway, models.APIError{
			Kind:    models.ErrUpstreamFailure,
			Message: "Failed to trigger workflow",
		})
		return
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error().Int("status", resp.StatusCode).Msg("webhook returned an error")
		utils.WriteError(w, resp.StatusCode, models.APIError{
			Kind:    models.ErrUpstreamFailure,
			Message: "Webhook failed",
			Details: string(respBody),
		})
		return
	}

	var result interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		result = map[string]interface{}{}
	}

	response := struct {
		Success bool        `json:"success"`
		Result  interface{} `json:"result"`
	}{
		Success: true,
		Result:  result,
	}

	utils.WriteJSON(w, http.StatusOK, response)
}
