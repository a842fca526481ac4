package handler

import (
	"net/http"

	"library-be/internal/security"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// LogoutProvider exposes the IdP's global logout URL from discovery metadata
type LogoutProvider interface {
	EndSessionEndpoint() string
}

// LogoutHandler serves global OIDC logout
type LogoutHandler struct {
	provider LogoutProvider
	log      *logger.Logger
}

// NewLogoutHandler creates a new logout handler. A nil provider is allowed;
// the logout response then carries an empty URL and the client only drops its
// local session.
func NewLogoutHandler(provider LogoutProvider, log *logger.Logger) *LogoutHandler {
	return &LogoutHandler{provider: provider, log: log}
}

// Logout handles POST /api/logout: returns the IdP's end-session URL and the
// current ID token so the client can complete the global logout redirect.
func (h *LogoutHandler) Logout(w http.ResponseWriter, r *http.Request) {
	rawToken, ok := security.RawTokenFromContext(r.Context())
	if !ok {
		writeError(w, errors.NewAuthenticationError("No active token"), h.log)
		return
	}

	logoutURL := ""
	if h.provider != nil {
		logoutURL = h.provider.EndSessionEndpoint()
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"logoutUrl": logoutURL,
		"idToken":   rawToken,
	}, h.log)
}
