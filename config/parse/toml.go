// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package parse

import (
	"fmt"
	"io"

	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/config/key"

	"github.com/BurntSushi/toml"
)

// InvalidTomlError occurs if a key = value document cannot be parsed.
type InvalidTomlError struct {
	Cause error
}

// Error implements the error interface.
func (e InvalidTomlError) Error() string {
	return fmt.Sprintf("invalid config file: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e InvalidTomlError) Unwrap() error {
	return e.Cause
}

// Toml parses a document of key = value lines, where dotted keys such as
// app.settings.jwt_exp open nested tables. Keys keep their document order.
func Toml(r io.Reader) (config.Table, error) {
	m := make(map[string]any)
	md, err := toml.NewDecoder(r).Decode(&m)
	if err != nil {
		return nil, InvalidTomlError{Cause: err}
	}

	t := config.Table{}
	for _, k := range md.Keys() {
		v, ok := lookupPath(m, k)
		if !ok {
			continue
		}
		if _, isTable := v.(map[string]any); isTable {
			// its leaves are visited as keys of their own
			continue
		}
		raw, ok := fromAny(v)
		if !ok {
			continue
		}

		chain := make(key.Chain, len(k))
		for i, seg := range k {
			chain[i] = key.Name(seg)
		}
		t, err = t.Set(chain, raw)
		if err != nil {
			return nil, InvalidTomlError{Cause: err}
		}
	}
	return t, nil
}

func lookupPath(m map[string]any, path toml.Key) (any, bool) {
	var cur any = m
	for _, seg := range path {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}
