package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

const stateCookie = "oauth2_state"

// AuthFlowHandler drives the authorization code flow against the IdP for
// browser clients that have no token yet.
type AuthFlowHandler struct {
	oauth *oauth2.Config
	log   *logger.Logger
}

// NewAuthFlowHandler creates a new authorization flow handler
func NewAuthFlowHandler(oauth *oauth2.Config, log *logger.Logger) *AuthFlowHandler {
	return &AuthFlowHandler{oauth: oauth, log: log}
}

// Authorize handles GET /api/oauth2/authorization: redirects to the IdP's
// authorization endpoint with a per-request state value.
func (h *AuthFlowHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		writeError(w, errors.NewInternalError("Failed to generate state", err), h.log)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// Callback handles GET /api/login/oauth2/code: validates the state and
// exchanges the authorization code for tokens.
func (h *AuthFlowHandler) Callback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		writeError(w, errors.NewAuthenticationError("State mismatch"), h.log)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, errors.NewValidationError("Missing authorization code", nil), h.log)
		return
	}

	token, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.log.WithError(err).Error("Authorization code exchange failed")
		writeError(w, errors.NewExternalError("Token exchange failed", err), h.log)
		return
	}

	response := map[string]interface{}{
		"accessToken": token.AccessToken,
		"tokenType":   token.TokenType,
		"expiresAt":   token.Expiry.UTC().Format(time.RFC3339),
	}
	if idToken, ok := token.Extra("id_token").(string); ok {
		response["idToken"] = idToken
	}

	writeJSON(w, http.StatusOK, response, h.log)
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
