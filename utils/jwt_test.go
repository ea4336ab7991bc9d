package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")

	token, err := GenerateToken("u1", secret)
	require.NoError(t, err)

	claims, err := VerifyToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims["user_id"])

	exp, ok := claims["exp"].(float64)
	require.True(t, ok)
	assert.Greater(t, int64(exp), time.Now().Unix())
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("u1", []byte("secret-a"))
	require.NoError(t, err)

	_, err = VerifyToken(token, []byte("secret-b"))
	assert.Error(t, err)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	_, err := VerifyToken("not-a-token", []byte("secret"))
	assert.Error(t, err)
}
