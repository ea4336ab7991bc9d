package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack-backend/models"
)

func TestTriggerWebhook(t *testing.T) {
	t.Run("forwards the body and passes the result through", func(t *testing.T) {
		var forwarded []byte
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			forwarded, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ran":true}`))
		}))
		defer upstream.Close()

		cfg := testConfig()
		cfg.N8NWebhookURL = upstream.URL
		h := New(newFakeStore(), cfg, nil)

		w := doRequest(h.TriggerWebhook, postJSON("/api/v1/trigger-n8n", `{"event":"sync"}`))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"event":"sync"}`, string(forwarded))

		var resp struct {
			Success bool                   `json:"success"`
			Result  map[string]interface{} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, true, resp.Result["ran"])
	})

	t.Run("upstream errors surface with their status and body", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte("workflow exploded"))
		}))
		defer upstream.Close()

		cfg := testConfig()
		cfg.N8NWebhookURL = upstream.URL
		h := New(newFakeStore(), cfg, nil)

		w := doRequest(h.TriggerWebhook, postJSON("/api/v1/trigger-n8n", `{}`))

		require.Equal(t, http.StatusBadGateway, w.Code)
		apiErr := decodeError(t, w)
		assert.Equal(t, models.ErrUpstreamFailure, apiErr.Kind)
		assert.Contains(t, apiErr.Details, "workflow exploded")
	})

	t.Run("unset webhook URL is a config error", func(t *testing.T) {
		h := newTestHandler(newFakeStore())

		w := doRequest(h.TriggerWebhook, postJSON("/api/v1/trigger-n8n", `{}`))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, models.ErrNotConfigured, decodeError(t, w).Kind)
	})

	t.Run("non-JSON body is rejected without an upstream call", func(t *testing.T) {
		called := false
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer upstream.Close()

		cfg := testConfig()
		cfg.N8NWebhookURL = upstream.URL
		h := New(newFakeStore(), cfg, nil)

		w := doRequest(h.TriggerWebhook, postJSON("/api/v1/trigger-n8n", `not json`))

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, called)
	})

	t.Run("non-JSON upstream success body becomes an empty result", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		}))
		defer upstream.Close()

		cfg := testConfig()
		cfg.N8NWebhookURL = upstream.URL
		h := New(newFakeStore(), cfg, nil)

		w := doRequest(h.TriggerWebhook, postJSON("/api/v1/trigger-n8n", `{}`))

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"result":{}}`, w.Body.String())
	})
}
