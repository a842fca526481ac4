package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLogoutProvider struct {
	endpoint string
}

func (s *stubLogoutProvider) EndSessionEndpoint() string { return s.endpoint }

func TestLogout(t *testing.T) {
	h := NewLogoutHandler(&stubLogoutProvider{endpoint: "https://idp.example.com/logout"}, testLogger(t))

	rec := httptest.NewRecorder()
	h.Logout(rec, authenticatedRequest(http.MethodPost, "/api/logout"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://idp.example.com/logout", body["logoutUrl"])
	assert.Equal(t, "raw.jwt", body["idToken"])
}

func TestLogout_WithoutProviderReturnsEmptyURL(t *testing.T) {
	h := NewLogoutHandler(nil, testLogger(t))

	rec := httptest.NewRecorder()
	h.Logout(rec, authenticatedRequest(http.MethodPost, "/api/logout"))

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "", body["logoutUrl"])
	assert.Equal(t, "raw.jwt", body["idToken"])
}

func TestLogout_NoActiveToken(t *testing.T) {
	h := NewLogoutHandler(&stubLogoutProvider{}, testLogger(t))

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/logout", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
