package handler

import (
	"net/http"

	"library-be/internal/security"
	"library-be/internal/service"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// AccountHandler serves the current user's account view
type AccountHandler struct {
	users service.UserSynchronizer
	log   *logger.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(users service.UserSynchronizer, log *logger.Logger) *AccountHandler {
	return &AccountHandler{users: users, log: log}
}

// GetAccount handles GET /api/account: the authenticated identity is
// reconciled against the local store and the resulting admin view returned.
// A request that reached this handler without usable claims is a server-side
// wiring fault and surfaces as 500.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := security.ClaimsFromContext(ctx)
	if !ok {
		h.log.Error("Account request without token claims in context")
		writeError(w, errors.NewInternalError("User could not be found", nil), h.log)
		return
	}

	account, err := h.users.GetUserFromToken(ctx, claims, security.CurrentAuthorities(ctx))
	if err != nil {
		h.log.WithError(err).Error("Failed to synchronize user with IdP")
		writeFailure(w, err, h.log)
		return
	}

	writeJSON(w, http.StatusOK, account, h.log)
}
