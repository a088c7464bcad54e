// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package jwk resolves the JWT secret and derives the key set tokens are
// verified against.
package jwk

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/z5labs/pgrest/config"
)

// Indirect applies file indirection. A value starting with @ names a
// file whose contents, minus a single trailing newline, replace the value.
// A file with no remaining content leaves the value unset.
func Indirect(_ context.Context, s string) config.Reader[string] {
	path, ok := strings.CutPrefix(s, "@")
	if !ok {
		return config.ReaderOf(s)
	}
	return config.Bind(config.ReadFile(path), func(_ context.Context, b []byte) config.Reader[string] {
		text := strings.TrimSuffix(string(b), "\n")
		if text == "" {
			return config.EmptyReader[string]()
		}
		return config.ReaderOf(text)
	})
}

// SecretDecodeError occurs when a secret flagged as base64 cannot be decoded.
type SecretDecodeError struct {
	Cause error
}

// Error implements the error interface.
func (e SecretDecodeError) Error() string {
	return fmt.Sprintf("failed to decode jwt-secret as base64: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e SecretDecodeError) Unwrap() error {
	return e.Cause
}

var urlAlphabet = strings.NewReplacer("_", "/", "-", "+", ".", "=")

// DecodeSecret returns the secret bytes of text. When isBase64 is set,
// text is decoded as base64url with missing padding tolerated.
func DecodeSecret(text string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(text), nil
	}

	text = strings.TrimSpace(urlAlphabet.Replace(text))
	if n := len(text) % 4; n != 0 {
		text += strings.Repeat("=", 4-n)
	}
	b, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, SecretDecodeError{Cause: err}
	}
	return b, nil
}

// EncodeSecret is the inverse of the base64 branch of DecodeSecret.
func EncodeSecret(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

