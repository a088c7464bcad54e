// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"sort"
	"strings"

	"github.com/z5labs/pgrest/config/key"
)

// Environ is an immutable snapshot of the environment variables which
// carry a given prefix. It is captured once per resolution pass.
type Environ struct {
	prefix string
	vars   map[string]string
}

// NewEnviron copies every variable in vars whose name starts with prefix.
func NewEnviron(prefix string, vars map[string]string) Environ {
	m := make(map[string]string)
	for k, v := range vars {
		if strings.HasPrefix(k, prefix) {
			m[k] = v
		}
	}
	return Environ{prefix: prefix, vars: m}
}

// Lookup returns the variable configuring k, if present. A present but
// empty variable is still reported as present.
func (e Environ) Lookup(k key.Keyer) (string, bool) {
	v, ok := e.vars[key.EnvName(e.prefix, k)]
	return v, ok
}

// Under returns every variable nested below k, e.g. PGRST_APP_SETTINGS_FOO
// below app.settings. Entry keys are the lower-cased remainder of the
// variable name and are sorted for a stable order.
func (e Environ) Under(k key.Keyer) []Entry {
	prefix := key.EnvName(e.prefix, k) + "_"

	var entries []Entry
	for name, v := range e.vars {
		rest, ok := strings.CutPrefix(name, prefix)
		if !ok || rest == "" {
			continue
		}
		entries = append(entries, Entry{Key: strings.ToLower(rest), Value: Text(v)})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Overrides are live configuration values supplied by the host at each
// resolution, keyed by key path e.g. db-schemas.
type Overrides map[string]string

// Origin identifies which source produced a resolved value.
type Origin int

const (
	OriginNone Origin = iota
	OriginFile
	OriginEnv
	OriginOverride
)

// String implements the [fmt.Stringer] interface.
func (o Origin) String() string {
	switch o {
	case OriginFile:
		return "file"
	case OriginEnv:
		return "env"
	case OriginOverride:
		return "override"
	default:
		return "none"
	}
}

// FromFile reads k from a parsed configuration file. A nil table means
// there is no file source.
func FromFile(t Table, k key.Keyer) Reader[Raw] {
	return ReaderFunc[Raw](func(ctx context.Context) (Value[Raw], error) {
		v, ok := t.Lookup(k)
		if !ok {
			return Value[Raw]{}, nil
		}
		return ValueOf(v), nil
	})
}

// FromEnv reads k from the environment snapshot.
func FromEnv(env Environ, k key.Keyer) Reader[Raw] {
	return ReaderFunc[Raw](func(ctx context.Context) (Value[Raw], error) {
		v, ok := env.Lookup(k)
		if !ok {
			return Value[Raw]{}, nil
		}
		return ValueOf[Raw](Text(v)), nil
	})
}

// FromOverrides reads k from the runtime overrides.
func FromOverrides(o Overrides, k key.Keyer) Reader[Raw] {
	return ReaderFunc[Raw](func(ctx context.Context) (Value[Raw], error) {
		v, ok := o[k.Key()]
		if !ok {
			return Value[Raw]{}, nil
		}
		return ValueOf[Raw](Text(v)), nil
	})
}

// Reloadable reports whether a key may be satisfied by runtime overrides.
type Reloadable func(key.Keyer) bool

// AllExcept returns a Reloadable which allows every key except the given ones.
func AllExcept(keys ...key.Keyer) Reloadable {
	deny := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		deny[k.Key()] = struct{}{}
	}
	return func(k key.Keyer) bool {
		_, denied := deny[k.Key()]
		return !denied
	}
}

// Sources are the snapshots a single resolution pass reads from.
type Sources struct {
	File       Table
	Env        Environ
	Overrides  Overrides
	Reloadable Reloadable

	// OnResolve, if non-nil, is told which source satisfied each resolved key.
	OnResolve func(key.Keyer, Origin)
}

// Resolve returns a Reader for k which applies the precedence ladder:
// runtime overrides (reloadable keys only), then environment, then file.
func Resolve(srcs Sources, k key.Keyer) Reader[Raw] {
	rs := make([]Reader[Raw], 0, 3)
	if srcs.Reloadable != nil && srcs.Reloadable(k) {
		rs = append(rs, srcs.traced(k, OriginOverride, FromOverrides(srcs.Overrides, k)))
	}
	rs = append(
		rs,
		srcs.traced(k, OriginEnv, FromEnv(srcs.Env, k)),
		srcs.traced(k, OriginFile, FromFile(srcs.File, k)),
	)
	return srcs.traced(k, OriginNone, Or(rs...))
}

func (srcs Sources) traced(k key.Keyer, o Origin, r Reader[Raw]) Reader[Raw] {
	if srcs.OnResolve == nil {
		return r
	}
	return ReaderFunc[Raw](func(ctx context.Context) (Value[Raw], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return v, err
		}
		_, ok := v.Value()
		if ok != (o == OriginNone) {
			srcs.OnResolve(k, o)
		}
		return v, nil
	})
}
