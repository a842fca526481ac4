package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"library-be/internal/security"
	"library-be/pkg/errors"
	"library-be/pkg/logger"
)

// TokenVerifier validates a raw bearer token and returns its claims map
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (map[string]interface{}, error)
}

// Auth creates an authentication middleware that verifies the bearer token
// and stores claims, granted authorities and the acting login in the context.
func Auth(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Authorization header is required"), log)
				return
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid authorization header format"), log)
				return
			}

			token := strings.TrimPrefix(authHeader, "Bearer ")
			if token == "" {
				writeErrorResponse(w, errors.NewAuthenticationError("Token is required"), log)
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, token)
			if err != nil {
				log.WithError(err).Error("Token validation failed")
				writeErrorResponse(w, errors.NewAuthenticationError("Invalid or expired token"), log)
				return
			}

			login := security.PrincipalFromClaims(claims)
			authorities := security.AuthoritiesFromClaims(claims)
			ctx = security.WithAccount(ctx, claims, authorities, login, token)
			r = r.WithContext(ctx)

			log.WithField("login", login).Debug("User authenticated successfully")

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuthority guards a route group behind a granted authority
func RequireAuthority(authority string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !security.HasCurrentUserThisAuthority(r.Context(), authority) {
				writeErrorResponse(w, errors.NewAuthorizationError("Insufficient authorities"), log)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse writes an error response to the client
func writeErrorResponse(w http.ResponseWriter, appErr *errors.AppError, log *logger.Logger) {
	log.WithError(appErr).Error("Request error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)

	response := map[string]interface{}{
		"error": map[string]interface{}{
			"type":      string(appErr.Type),
			"message":   appErr.Message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.WithError(err).Error("Failed to encode error response")
	}
}
