package oidc

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// Verifier wraps the OIDC provider discovery and ID token verification
type Verifier struct {
	provider           *oidc.Provider
	verifier           *oidc.IDTokenVerifier
	clientID           string
	endSessionEndpoint string
}

// providerClaims carries the discovery metadata fields we need beyond
// what go-oidc exposes directly.
type providerClaims struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

// NewVerifier discovers the issuer configuration and creates a token verifier
func NewVerifier(ctx context.Context, issuer, clientID string) (*Verifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	var meta providerClaims
	if err := provider.Claims(&meta); err != nil {
		return nil, fmt.Errorf("failed to read provider metadata: %w", err)
	}

	return &Verifier{
		provider:           provider,
		verifier:           provider.Verifier(&oidc.Config{ClientID: clientID}),
		clientID:           clientID,
		endSessionEndpoint: meta.EndSessionEndpoint,
	}, nil
}

// Verify validates a raw ID token and returns its claims map
func (v *Verifier) Verify(ctx context.Context, raw string) (map[string]interface{}, error) {
	idToken, err := v.verifier.Verify(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var claims map[string]interface{}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}
	return claims, nil
}

// EndSessionEndpoint returns the IdP's global logout URL from discovery metadata
func (v *Verifier) EndSessionEndpoint() string {
	return v.endSessionEndpoint
}

// OAuth2Config builds the relying-party configuration for the authorization
// code flow against the discovered issuer endpoints.
func (v *Verifier) OAuth2Config(clientSecret, redirectURL string, scopes ...string) *oauth2.Config {
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}
	return &oauth2.Config{
		ClientID:     v.clientID,
		ClientSecret: clientSecret,
		Endpoint:     v.provider.Endpoint(),
		RedirectURL:  redirectURL,
		Scopes:       scopes,
	}
}
