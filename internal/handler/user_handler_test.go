package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-be/internal/domain"
)

func TestGetAllUsers(t *testing.T) {
	stub := &stubSynchronizer{
		managed: []*domain.AdminUserDTO{
			{ID: "1", Login: "alice", Authorities: []string{"ROLE_ADMIN"}},
			{ID: "2", Login: "bob", Authorities: []string{"ROLE_USER"}},
		},
		total: 42,
	}
	h := NewUserHandler(stub, testLogger(t))

	rec := httptest.NewRecorder()
	h.GetAllUsers(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users?page=0&size=20", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Header().Get("X-Total-Count"))

	var dtos []*domain.AdminUserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 2)
	assert.Equal(t, "alice", dtos[0].Login)
}

func TestGetUser(t *testing.T) {
	stub := &stubSynchronizer{
		byLogin: map[string]*domain.AdminUserDTO{
			"alice": {ID: "1", Login: "alice", Authorities: []string{"ROLE_USER"}},
		},
	}
	h := NewUserHandler(stub, testLogger(t))

	router := chi.NewRouter()
	router.Get("/api/admin/users/{login}", h.GetUser)

	t.Run("known login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users/alice", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		var dto domain.AdminUserDTO
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
		assert.Equal(t, "alice", dto.Login)
	})

	t.Run("unknown login", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users/ghost", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGetAllPublicUsers(t *testing.T) {
	stub := &stubSynchronizer{
		public: []*domain.UserDTO{{ID: "1", Login: "alice"}},
		total:  1,
	}
	h := NewUserHandler(stub, testLogger(t))

	rec := httptest.NewRecorder()
	h.GetAllPublicUsers(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("X-Total-Count"))

	var dtos []*domain.UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	assert.Equal(t, "alice", dtos[0].Login)
}

func TestGetAuthorities(t *testing.T) {
	t.Run("populated", func(t *testing.T) {
		h := NewUserHandler(&stubSynchronizer{authorities: []string{"ROLE_ADMIN", "ROLE_USER"}}, testLogger(t))

		rec := httptest.NewRecorder()
		h.GetAuthorities(rec, httptest.NewRequest(http.MethodGet, "/api/authorities", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `["ROLE_ADMIN","ROLE_USER"]`, rec.Body.String())
	})

	t.Run("empty set stays an array", func(t *testing.T) {
		h := NewUserHandler(&stubSynchronizer{}, testLogger(t))

		rec := httptest.NewRecorder()
		h.GetAuthorities(rec, httptest.NewRequest(http.MethodGet, "/api/authorities", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})
}
