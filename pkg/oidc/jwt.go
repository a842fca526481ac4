package oidc

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// HSVerifier validates HS256-signed resource-server tokens with a shared
// secret. It backs deployments without a reachable OIDC issuer (dev, CI).
type HSVerifier struct {
	secret []byte
}

// NewHSVerifier creates a verifier for HS256 tokens signed with secret
func NewHSVerifier(secret string) *HSVerifier {
	return &HSVerifier{secret: []byte(secret)}
}

// Verify parses and validates a raw JWT and returns its claims map
func (p *HSVerifier) Verify(_ context.Context, raw string) (map[string]interface{}, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}
	return map[string]interface{}(claims), nil
}

// EndSessionEndpoint returns an empty URL; shared-secret tokens have no
// identity provider session to terminate.
func (p *HSVerifier) EndSessionEndpoint() string {
	return ""
}
