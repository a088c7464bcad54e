// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package auth maps bearer tokens to database roles using a resolved
// configuration.
package auth

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/z5labs/pgrest/appconfig"
	"github.com/z5labs/pgrest/jspath"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret is returned when a token is presented but no jwt-secret
	// is configured.
	ErrNoSecret = errors.New("server lacks JWT secret")

	// ErrNoMatchingKey is returned when no configured key can verify the
	// token's signing method.
	ErrNoMatchingKey = errors.New("no suitable key found to verify the JWT")
)

// TokenError occurs when a presented token fails verification.
type TokenError struct {
	Cause error
}

// Error implements the error interface.
func (e TokenError) Error() string {
	return fmt.Sprintf("JWT invalid: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e TokenError) Unwrap() error {
	return e.Cause
}

// RoleClaimError occurs when the role claim exists but is not a string.
type RoleClaimError struct {
	Path  jspath.Path
	Value any
}

// Error implements the error interface.
func (e RoleClaimError) Error() string {
	return fmt.Sprintf("role claim %s must be a string, got %T", e.Path, e.Value)
}

// Verifier verifies bearer tokens against a Config's key set.
type Verifier struct {
	anon   string
	keys   *jose.JSONWebKeySet
	path   jspath.Path
	parser *jwt.Parser
}

// NewVerifier returns a Verifier for c. The Config must not change while
// the Verifier is in use, which holds since Configs are immutable.
func NewVerifier(c *appconfig.Config) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{
			"HS256", "HS384", "HS512",
			"RS256", "RS384", "RS512",
			"PS256", "PS384", "PS512",
			"ES256", "ES384", "ES512",
			"EdDSA",
		}),
	}
	if c.JwtAudience != "" {
		opts = append(opts, jwt.WithAudience(c.JwtAudience))
	}

	return &Verifier{
		anon:   c.DbAnonRole,
		keys:   c.JwtKeySet,
		path:   c.JwtRoleClaimKey,
		parser: jwt.NewParser(opts...),
	}
}

// Role returns the database role token authenticates as. An empty token
// and a token without a role claim both map to the anonymous role.
func (v *Verifier) Role(token string) (string, error) {
	if token == "" {
		return v.anon, nil
	}
	if v.keys == nil {
		return "", TokenError{Cause: ErrNoSecret}
	}

	claims := jwt.MapClaims{}
	_, err := v.parser.ParseWithClaims(token, claims, v.keyfunc)
	if err != nil {
		return "", TokenError{Cause: err}
	}

	raw, ok := v.path.Get(map[string]any(claims))
	if !ok {
		return v.anon, nil
	}
	role, ok := raw.(string)
	if !ok {
		return "", RoleClaimError{Path: v.path, Value: raw}
	}
	return role, nil
}

func (v *Verifier) keyfunc(t *jwt.Token) (any, error) {
	candidates := v.keys.Keys
	if kid, ok := t.Header["kid"].(string); ok && kid != "" {
		candidates = v.keys.Key(kid)
	}

	for _, k := range candidates {
		key := verificationKey(k)
		if key != nil && accepts(t.Method, key) {
			return key, nil
		}
	}
	return nil, ErrNoMatchingKey
}

func verificationKey(k jose.JSONWebKey) any {
	switch key := k.Key.(type) {
	case []byte:
		return key
	case *rsa.PublicKey, *ecdsa.PublicKey, ed25519.PublicKey:
		return key
	case *rsa.PrivateKey:
		return &key.PublicKey
	case *ecdsa.PrivateKey:
		return &key.PublicKey
	case ed25519.PrivateKey:
		return key.Public()
	default:
		return nil
	}
}

func accepts(m jwt.SigningMethod, key any) bool {
	switch m.(type) {
	case *jwt.SigningMethodHMAC:
		_, ok := key.([]byte)
		return ok
	case *jwt.SigningMethodRSA, *jwt.SigningMethodRSAPSS:
		_, ok := key.(*rsa.PublicKey)
		return ok
	case *jwt.SigningMethodECDSA:
		_, ok := key.(*ecdsa.PublicKey)
		return ok
	case *jwt.SigningMethodEd25519:
		_, ok := key.(ed25519.PublicKey)
		return ok
	default:
		return false
	}
}
