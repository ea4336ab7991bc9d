package utils

import (
	"encoding/json"
	"net/http"

	"github.com/fintrackhq/fintrack-backend/models"
)

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func WriteError(w http.ResponseWriter, status int, apiErr models.APIError) {
	WriteJSON(w, status, apiErr)
}
