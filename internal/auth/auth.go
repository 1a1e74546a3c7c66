// Package auth is the boundary to the external identity provider. The
// provider issues the tokens; this package only parses them and resolves
// an opaque subject plus role claims. No credential handling happens here.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is what the rest of the system sees: an opaque subject and
// the provider-asserted roles. Claim formats never leak past this package.
type Identity struct {
	Sub   string
	Roles []string
}

func (id Identity) HasRole(role string) bool {
	for _, r := range id.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Parse validates an HS256 bearer token and resolves the identity.
func (v *Verifier) Parse(tokenString string) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	sub := resolveSubject(claims)
	if sub == "" {
		return Identity{}, errors.New("missing sub claim")
	}
	return Identity{Sub: sub, Roles: resolveRoles(claims)}, nil
}

// resolveSubject collapses the provider's fallback claim names into one
// opaque subject string.
func resolveSubject(claims jwt.MapClaims) string {
	for _, name := range []string{"sub", "preferred_username", "nameid"} {
		if s, ok := claims[name].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// resolveRoles accepts either a flat "roles" claim or a Keycloak-style
// realm_access.roles block.
func resolveRoles(claims jwt.MapClaims) []string {
	if roles := stringSlice(claims["roles"]); len(roles) > 0 {
		return roles
	}
	if ra, ok := claims["realm_access"].(map[string]any); ok {
		return stringSlice(ra["roles"])
	}
	return nil
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
