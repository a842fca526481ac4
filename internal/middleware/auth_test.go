package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-be/internal/security"
	"library-be/pkg/logger"
)

// stubVerifier accepts one well-known token and rejects everything else
type stubVerifier struct {
	claims map[string]interface{}
}

func (s *stubVerifier) Verify(_ context.Context, raw string) (map[string]interface{}, error) {
	if raw != "good-token" {
		return nil, fmt.Errorf("unknown token")
	}
	return s.claims, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error")
	require.NoError(t, err)
	return log
}

func TestAuth(t *testing.T) {
	log := testLogger(t)
	verifier := &stubVerifier{claims: map[string]interface{}{
		"sub":                "abc-123",
		"preferred_username": "JDoe",
		"groups":             []interface{}{"ROLE_USER", "offline_access"},
	}}

	var gotLogin string
	var gotAuthorities []string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLogin, _ = security.CurrentUserLogin(r.Context())
		gotAuthorities = security.CurrentAuthorities(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(verifier, log)(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "rejected token", header: "Bearer bad-token", wantStatus: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good-token", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/account", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}

	// the valid request populated the security context
	assert.Equal(t, "jdoe", gotLogin)
	assert.Equal(t, []string{"ROLE_USER"}, gotAuthorities)
}

func TestRequireAuthority(t *testing.T) {
	log := testLogger(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAuthority(security.RoleAdmin, log)(next)

	t.Run("granted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		ctx := security.WithAccount(req.Context(), nil, []string{security.RoleAdmin}, "admin", "")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("denied", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		ctx := security.WithAccount(req.Context(), nil, []string{security.RoleUser}, "jdoe", "")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req.WithContext(ctx))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
