package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"library-be/internal/service"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// UserHandler serves the admin and public user views
type UserHandler struct {
	users service.UserSynchronizer
	log   *logger.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(users service.UserSynchronizer, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

// GetAllUsers handles GET /api/admin/users
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.log.Debug("REST request to get all users for an admin")

	total, err := h.users.CountManagedUsers(ctx)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	dtos, err := h.users.GetAllManagedUsers(ctx, pageableFromRequest(r))
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, dtos, h.log)
}

// GetUser handles GET /api/admin/users/{login}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	login := chi.URLParam(r, "login")
	h.log.WithField("login", login).Debug("REST request to get user")

	dto, err := h.users.GetUserWithAuthoritiesByLogin(r.Context(), login)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if dto == nil {
		writeError(w, errors.NewNotFoundError("User not found"), h.log)
		return
	}

	writeJSON(w, http.StatusOK, dto, h.log)
}

// GetAllPublicUsers handles GET /api/users
func (h *UserHandler) GetAllPublicUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.log.Debug("REST request to get all public user names")

	total, err := h.users.CountManagedUsers(ctx)
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	dtos, err := h.users.GetAllPublicUsers(ctx, pageableFromRequest(r))
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}

	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, dtos, h.log)
}

// GetAuthorities handles GET /api/authorities
func (h *UserHandler) GetAuthorities(w http.ResponseWriter, r *http.Request) {
	names, err := h.users.GetAuthorities(r.Context())
	if err != nil {
		writeFailure(w, err, h.log)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names, h.log)
}
