package oidc

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signHS256(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestHSVerifier_Verify(t *testing.T) {
	verifier := NewHSVerifier("test-secret")
	raw := signHS256(t, "test-secret", jwt.MapClaims{
		"sub":                "abc-123",
		"preferred_username": "jdoe",
		"groups":             []string{"ROLE_USER"},
		"exp":                time.Now().Add(time.Hour).Unix(),
	})

	claims, err := verifier.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", claims["sub"])
	assert.Equal(t, "jdoe", claims["preferred_username"])
}

func TestHSVerifier_RejectsWrongSecret(t *testing.T) {
	verifier := NewHSVerifier("test-secret")
	raw := signHS256(t, "other-secret", jwt.MapClaims{"sub": "abc"})

	_, err := verifier.Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestHSVerifier_RejectsExpiredToken(t *testing.T) {
	verifier := NewHSVerifier("test-secret")
	raw := signHS256(t, "test-secret", jwt.MapClaims{
		"sub": "abc",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := verifier.Verify(context.Background(), raw)
	assert.Error(t, err)
}

func TestHSVerifier_RejectsGarbage(t *testing.T) {
	verifier := NewHSVerifier("test-secret")

	_, err := verifier.Verify(context.Background(), "not.a.jwt")
	assert.Error(t, err)
}
