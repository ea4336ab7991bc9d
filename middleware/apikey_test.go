package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAPIKey(expected string, decorate func(*http.Request)) (*httptest.ResponseRecorder, bool) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions?userId=u1", nil)
	if decorate != nil {
		decorate(r)
	}

	w := httptest.NewRecorder()
	APIKey(expected)(next).ServeHTTP(w, r)
	return w, called
}

func TestAPIKey(t *testing.T) {
	t.Run("accepts X-API-Key header", func(t *testing.T) {
		w, called := runAPIKey("sekret", func(r *http.Request) {
			r.Header.Set("X-API-Key", "sekret")
		})
		require.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("accepts Bearer credential", func(t *testing.T) {
		_, called := runAPIKey("sekret", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer sekret")
		})
		assert.True(t, called)
	})

	t.Run("rejects a missing key", func(t *testing.T) {
		w, called := runAPIKey("sekret", nil)
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects a wrong key", func(t *testing.T) {
		w, called := runAPIKey("sekret", func(r *http.Request) {
			r.Header.Set("X-API-Key", "wrong")
		})
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unset server key is a config error, not unauthorized", func(t *testing.T) {
		w, called := runAPIKey("", func(r *http.Request) {
			r.Header.Set("X-API-Key", "anything")
		})
		assert.False(t, called)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "NotConfigured")
	})
}
