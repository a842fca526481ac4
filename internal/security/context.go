package security

import "context"

type contextKey string

const (
	claimsKey   contextKey = "claims"
	rolesKey    contextKey = "roles"
	loginKey    contextKey = "login"
	rawTokenKey contextKey = "raw_token"
)

// WithAccount stores the authenticated caller's claims, granted authorities,
// login and raw token in the request context.
func WithAccount(ctx context.Context, claims map[string]interface{}, authorities []string, login, rawToken string) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	ctx = context.WithValue(ctx, rolesKey, authorities)
	ctx = context.WithValue(ctx, loginKey, login)
	ctx = context.WithValue(ctx, rawTokenKey, rawToken)
	return ctx
}

// ClaimsFromContext returns the verified claims map, if any
func ClaimsFromContext(ctx context.Context) (map[string]interface{}, bool) {
	claims, ok := ctx.Value(claimsKey).(map[string]interface{})
	return claims, ok
}

// CurrentUserLogin returns the login of the authenticated caller, if any
func CurrentUserLogin(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(loginKey).(string)
	if !ok || login == "" {
		return "", false
	}
	return login, true
}

// CurrentAuthorities returns the granted authorities of the caller
func CurrentAuthorities(ctx context.Context) []string {
	authorities, _ := ctx.Value(rolesKey).([]string)
	return authorities
}

// HasCurrentUserThisAuthority reports whether the caller holds the authority
func HasCurrentUserThisAuthority(ctx context.Context, authority string) bool {
	for _, a := range CurrentAuthorities(ctx) {
		if a == authority {
			return true
		}
	}
	return false
}

// IsAuthenticated reports whether the caller is a non-anonymous principal
func IsAuthenticated(ctx context.Context) bool {
	if _, ok := CurrentUserLogin(ctx); !ok {
		return false
	}
	return !HasCurrentUserThisAuthority(ctx, RoleAnonymous)
}

// RawTokenFromContext returns the raw bearer token of the current request
func RawTokenFromContext(ctx context.Context) (string, bool) {
	raw, ok := ctx.Value(rawTokenKey).(string)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
