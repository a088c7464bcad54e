// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

import (
	"fmt"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/z5labs/pgrest/config/key"
	"github.com/z5labs/pgrest/jspath"

	"github.com/go-playground/validator/v10"
)

// FieldError occurs when a value is present but violates the constraints
// of its field.
type FieldError struct {
	Key string
	Msg string
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return e.Msg
}

// MissingFieldError occurs when a required field is set by none of its keys.
type MissingFieldError struct {
	Key   string
	Alias string
}

// Error implements the error interface.
func (e MissingFieldError) Error() string {
	if e.Alias == "" {
		return fmt.Sprintf("missing key: %s", e.Key)
	}
	return fmt.Sprintf("missing key: either %s or %s must be set", e.Key, e.Alias)
}

var validate = validator.New()

const (
	minSocketMode fs.FileMode = 0o600
	maxSocketMode fs.FileMode = 0o777
)

// ParseSocketMode parses an octal file mode between 600 and 777. Text that
// is not octal, such as "999", is reported as "not an octal" before any
// range check; only valid octal outside the range gets the range message.
func ParseSocketMode(s string) (fs.FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, FieldError{
			Key: keyServerUnixSocketMode.Key(),
			Msg: "Invalid server-unix-socket-mode: not an octal",
		}
	}

	mode := fs.FileMode(n)
	if mode < minSocketMode || mode > maxSocketMode {
		return 0, FieldError{
			Key: keyServerUnixSocketMode.Key(),
			Msg: "Invalid server-unix-socket-mode: needs to be between 600 and 777",
		}
	}
	return mode, nil
}

// ValidateProxyURI accepts an absolute http or https URI with an optional
// port and path but without credentials, query or fragment.
func ValidateProxyURI(s string) (string, error) {
	malformed := FieldError{
		Key: keyOpenAPIServerProxyURI.Key(),
		Msg: "Malformed proxy uri, a correct example: https://example.com:8443/basePath",
	}

	err := validate.Var(s, "required,url")
	if err != nil {
		return "", malformed
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", malformed
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", malformed
	}
	if u.Hostname() == "" || u.User != nil || u.Opaque != "" {
		return "", malformed
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return "", malformed
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 || n > 65535 {
			return "", malformed
		}
	}
	return s, nil
}

// ValidateAudience accepts a StringOrURI value: any string without a
// colon, or a well formed URI.
func ValidateAudience(s string) (string, error) {
	if !strings.Contains(s, ":") {
		return s, nil
	}

	err := validate.Var(s, "uri")
	if err != nil {
		return "", FieldError{
			Key: keyJwtAud.Key(),
			Msg: "jwt-aud should be a string or a valid URI",
		}
	}
	return s, nil
}

// ParseRoleClaimKey parses the path used to find the role in JWT claims.
func ParseRoleClaimKey(s string) (jspath.Path, error) {
	p, err := jspath.Parse(s)
	if err != nil {
		return nil, FieldError{
			Key: keyJwtRoleClaimKey.Key(),
			Msg: fmt.Sprintf("failed to parse role-claim-key value (%s): %s", s, err),
		}
	}
	return p, nil
}

func positive(k key.Name) func(int) (int, error) {
	return func(n int) (int, error) {
		if n <= 0 {
			return 0, FieldError{
				Key: k.Key(),
				Msg: fmt.Sprintf("%s must be a positive integer", k),
			}
		}
		return n, nil
	}
}

func nonEmpty(ss []string) ([]string, error) {
	if len(ss) == 0 {
		return nil, FieldError{
			Key: keyDbSchemas.Key(),
			Msg: "db-schemas must contain at least one schema",
		}
	}
	return ss, nil
}
