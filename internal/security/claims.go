package security

import (
	"strings"

	"library-be/internal/domain"
)

const (
	// SystemAccount stamps audit fields when no acting login is available
	SystemAccount = "system"

	// DefaultLanguage is used when the IdP supplies neither langKey nor locale
	DefaultLanguage = "en"

	RoleAdmin     = "ROLE_ADMIN"
	RoleUser      = "ROLE_USER"
	RoleAnonymous = "ROLE_ANONYMOUS"
)

// UserFromClaims maps a loosely-typed claims map into a transient user.
// No claim is mandatory except the subject identifier; malformed values are
// treated as absent rather than failing. Pure, no I/O.
func UserFromClaims(claims map[string]interface{}) *domain.User {
	user := &domain.User{Activated: true}

	// Resource-server JWTs carry the identifier in uid and the login in sub
	if uid := stringClaim(claims, "uid"); uid != "" {
		user.ID = uid
		user.Login = stringClaim(claims, "sub")
	} else {
		user.ID = stringClaim(claims, "sub")
	}

	if preferred := stringClaim(claims, "preferred_username"); preferred != "" {
		user.Login = strings.ToLower(preferred)
	} else if user.Login == "" {
		user.Login = user.ID
	}

	user.FirstName = stringClaim(claims, "given_name")
	user.LastName = stringClaim(claims, "family_name")

	if verified, ok := claims["email_verified"].(bool); ok {
		user.Activated = verified
	}

	if email := stringClaim(claims, "email"); email != "" {
		user.Email = strings.ToLower(email)
	} else {
		user.Email = stringClaim(claims, "sub")
	}

	user.LangKey = langKeyFromClaims(claims)
	user.ImageURL = stringClaim(claims, "picture")

	return user
}

// langKeyFromClaims resolves the language key: an explicit langKey claim wins,
// then the locale claim with any region suffix stripped, then the default.
func langKeyFromClaims(claims map[string]interface{}) string {
	if langKey := stringClaim(claims, "langKey"); langKey != "" {
		return langKey
	}
	if locale := stringClaim(claims, "locale"); locale != "" {
		if idx := strings.Index(locale, "_"); idx >= 0 {
			locale = locale[:idx]
		} else if idx := strings.Index(locale, "-"); idx >= 0 {
			locale = locale[:idx]
		}
		return strings.ToLower(locale)
	}
	return DefaultLanguage
}

// RolesFromClaims returns the raw role names asserted by the token, taken
// from the groups claim when present, else the roles claim.
func RolesFromClaims(claims map[string]interface{}) []string {
	raw, ok := claims["groups"]
	if !ok {
		raw = claims["roles"]
	}

	switch values := raw.(type) {
	case []string:
		return values
	case []interface{}:
		roles := make([]string, 0, len(values))
		for _, v := range values {
			if s, ok := v.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	}
	return nil
}

// ToAuthorities filters role names down to those usable as authorities
func ToAuthorities(roles []string) []string {
	authorities := make([]string, 0, len(roles))
	for _, role := range roles {
		if strings.HasPrefix(role, "ROLE_") {
			authorities = append(authorities, role)
		}
	}
	return authorities
}

// AuthoritiesFromClaims combines role extraction and authority filtering
func AuthoritiesFromClaims(claims map[string]interface{}) []string {
	return ToAuthorities(RolesFromClaims(claims))
}

// PrincipalFromClaims resolves the login name identifying the caller
func PrincipalFromClaims(claims map[string]interface{}) string {
	if preferred := stringClaim(claims, "preferred_username"); preferred != "" {
		return strings.ToLower(preferred)
	}
	return stringClaim(claims, "sub")
}

// stringClaim reads a string-valued claim, treating anything else as absent
func stringClaim(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
