// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package parse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/pgrest/config"
)

// InvalidJsonError occurs if the underlying io.Reader contains invalid JSON.
type InvalidJsonError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidJsonError) Error() string {
	return fmt.Sprintf("invalid json: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidJsonError) Unwrap() error {
	return e.Cause
}

// Json parses a JSON object. The document is validated as JSON first and
// then walked as YAML, of which JSON is a subset, so object keys keep
// their document order.
func Json(r io.Reader) (config.Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var probe map[string]any
	err = json.Unmarshal(b, &probe)
	if err != nil {
		return nil, InvalidJsonError{Cause: err}
	}

	t, err := parseYaml(b)
	if err != nil {
		return nil, InvalidJsonError{Cause: err}
	}
	return t, nil
}
