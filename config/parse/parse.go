// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package parse turns configuration files into ordered [config.Table]s.
package parse

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/internal/try"
)

// Parser parses a configuration document.
type Parser func(io.Reader) (config.Table, error)

// ByExtension picks a Parser from the file extension of path. Files
// ending in .yaml, .yml or .json use the matching parser, anything else
// is parsed as a key = value document.
func ByExtension(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return Yaml
	case ".json":
		return Json
	default:
		return Toml
	}
}

// File parses the configuration file at path. An empty path means there
// is no file source and yields a nil table.
func File(path string) (_ config.Table, err error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, config.ReadFileError{Path: path, Cause: err}
	}
	defer try.Close(&err, f)

	return ByExtension(path)(f)
}

// fromAny converts a decoded scalar, list or map into a Raw value.
// Lists become comma joined text so they can feed list fields.
func fromAny(v any) (config.Raw, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case string:
		return config.Text(x), true
	case bool:
		return config.Boolean(x), true
	case int:
		return config.Number(x), true
	case int64:
		return config.Number(x), true
	case uint64:
		return config.Number(x), true
	case float64:
		return config.Number(x), true
	case []any:
		ss := make([]string, 0, len(x))
		for _, e := range x {
			raw, ok := fromAny(e)
			if !ok {
				continue
			}
			s, ok := config.TextOf(raw)
			if !ok {
				continue
			}
			ss = append(ss, s)
		}
		return config.Text(strings.Join(ss, ",")), true
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		t := make(config.Table, 0, len(keys))
		for _, k := range keys {
			raw, ok := fromAny(x[k])
			if !ok {
				continue
			}
			t = append(t, config.Entry{Key: k, Value: raw})
		}
		return t, true
	default:
		return config.Text(fmt.Sprint(x)), true
	}
}
