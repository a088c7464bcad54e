// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for strongly typed configuration keys.
package key

import (
	"strings"
)

// Keyer is a common interface all config key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys e.g. app.settings.jwt_exp.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range len(k) {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, ".")
}

// Names flattens the chain into its individual segments.
func (k Chain) Names() []string {
	var ss []string
	for _, kk := range k {
		switch x := kk.(type) {
		case Chain:
			ss = append(ss, x.Names()...)
		default:
			ss = append(ss, kk.Key())
		}
	}
	return ss
}

// Name represents a single key e.g. db-pool.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Parse splits a dotted key path. A path without any dots is returned as a [Name].
func Parse(s string) Keyer {
	parts := strings.Split(s, ".")
	if len(parts) == 1 {
		return Name(s)
	}
	chain := make(Chain, len(parts))
	for i, p := range parts {
		chain[i] = Name(p)
	}
	return chain
}

// Segments returns the individual path segments of any Keyer.
func Segments(k Keyer) []string {
	switch x := k.(type) {
	case Chain:
		return x.Names()
	case Name:
		return []string{string(x)}
	default:
		return strings.Split(k.Key(), ".")
	}
}

// EnvName returns the environment variable name which configures k,
// e.g. db-pool-timeout under the PGRST_ prefix is PGRST_DB_POOL_TIMEOUT.
func EnvName(prefix string, k Keyer) string {
	r := strings.NewReplacer("-", "_", ".", "_")
	return prefix + strings.ToUpper(r.Replace(k.Key()))
}
