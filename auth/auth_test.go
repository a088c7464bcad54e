// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/z5labs/pgrest/appconfig"
	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/config/parse"

	"github.com/go-jose/go-jose/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const secret = "reallyreallyreallyreallyverysafe"

func resolve(t *testing.T, env map[string]string) *appconfig.Config {
	t.Helper()

	tbl, err := parse.Toml(strings.NewReader(`
db-uri = "postgres://localhost/app"
db-anon-role = "web_anon"
db-schemas = "api"
`))
	require.NoError(t, err)

	c, err := appconfig.Resolve(context.Background(), appconfig.Input{
		File: tbl,
		Env:  config.NewEnviron(appconfig.EnvPrefix, env),
	})
	require.NoError(t, err)
	return c
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func TestVerifier_Role(t *testing.T) {
	t.Run("will use the anonymous role without a token", func(t *testing.T) {
		v := NewVerifier(resolve(t, nil))

		role, err := v.Role("")
		require.NoError(t, err)
		require.Equal(t, "web_anon", role)
	})

	t.Run("will reject tokens if no secret is configured", func(t *testing.T) {
		v := NewVerifier(resolve(t, nil))

		_, err := v.Role(sign(t, jwt.MapClaims{"role": "web_user"}))
		require.ErrorIs(t, err, ErrNoSecret)
	})

	t.Run("will read the role of a symmetric token", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": secret,
		}))

		role, err := v.Role(sign(t, jwt.MapClaims{"role": "web_user"}))
		require.NoError(t, err)
		require.Equal(t, "web_user", role)
	})

	t.Run("will follow the role claim path", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET":         secret,
			"PGRST_JWT_ROLE_CLAIM_KEY": ".postgrest.roles[1]",
		}))

		role, err := v.Role(sign(t, jwt.MapClaims{
			"postgrest": map[string]any{
				"roles": []any{"reader", "writer"},
			},
		}))
		require.NoError(t, err)
		require.Equal(t, "writer", role)
	})

	t.Run("will use the anonymous role if the claim is missing", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": secret,
		}))

		role, err := v.Role(sign(t, jwt.MapClaims{"sub": "someone"}))
		require.NoError(t, err)
		require.Equal(t, "web_anon", role)
	})

	t.Run("will reject a role claim which is not a string", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": secret,
		}))

		_, err := v.Role(sign(t, jwt.MapClaims{"role": 1}))

		var rerr RoleClaimError
		require.ErrorAs(t, err, &rerr)
	})

	t.Run("will reject tokens signed with another secret", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": "another-secret-another-secret-32",
		}))

		_, err := v.Role(sign(t, jwt.MapClaims{"role": "web_user"}))

		var terr TokenError
		require.ErrorAs(t, err, &terr)
	})

	t.Run("will reject expired tokens", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": secret,
		}))

		_, err := v.Role(sign(t, jwt.MapClaims{
			"role": "web_user",
			"exp":  time.Now().Add(-time.Hour).Unix(),
		}))
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("will check the audience", func(t *testing.T) {
		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": secret,
			"PGRST_JWT_AUD":    "https://example.com/api",
		}))

		role, err := v.Role(sign(t, jwt.MapClaims{"role": "web_user", "aud": "https://example.com/api"}))
		require.NoError(t, err)
		require.Equal(t, "web_user", role)

		_, err = v.Role(sign(t, jwt.MapClaims{"role": "web_user", "aud": "other"}))
		require.ErrorIs(t, err, jwt.ErrTokenInvalidAudience)
	})

	t.Run("will verify asymmetric tokens against a key set", func(t *testing.T) {
		pub, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		doc, err := json.Marshal(jose.JSONWebKeySet{
			Keys: []jose.JSONWebKey{{Key: pub, KeyID: "k1", Algorithm: "EdDSA", Use: "sig"}},
		})
		require.NoError(t, err)

		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": string(doc),
		}))

		token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims{"role": "admin"})
		token.Header["kid"] = "k1"
		s, err := token.SignedString(priv)
		require.NoError(t, err)

		role, err := v.Role(s)
		require.NoError(t, err)
		require.Equal(t, "admin", role)

		token.Header["kid"] = "unknown"
		s, err = token.SignedString(priv)
		require.NoError(t, err)

		_, err = v.Role(s)
		require.ErrorIs(t, err, ErrNoMatchingKey)
	})

	t.Run("will not verify hmac tokens with an asymmetric key", func(t *testing.T) {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		doc, err := json.Marshal(jose.JSONWebKey{Key: pub})
		require.NoError(t, err)

		v := NewVerifier(resolve(t, map[string]string{
			"PGRST_JWT_SECRET": string(doc),
		}))

		_, err = v.Role(sign(t, jwt.MapClaims{"role": "web_user"}))
		require.ErrorIs(t, err, ErrNoMatchingKey)
	})
}
