// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// coerce maps a set Raw value with f. A value f cannot type is reported
// as unset rather than as an error.
func coerce[T any](r Reader[Raw], f func(Raw) (T, bool)) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[T]{}, err
		}
		raw, ok := v.Value()
		if !ok {
			return Value[T]{}, nil
		}
		t, ok := f(raw)
		if !ok {
			return Value[T]{}, nil
		}
		return ValueOf(t), nil
	})
}

// String coerces any scalar value to its textual form. Empty text is
// treated as unset.
func String(r Reader[Raw]) Reader[string] {
	return coerce(r, TextOf)
}

// TextOf renders a scalar Raw value as text.
func TextOf(raw Raw) (string, bool) {
	var s string
	switch x := raw.(type) {
	case Text:
		s = string(x)
	case Number:
		s = x.String()
	case Boolean:
		s = x.String()
	default:
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Int coerces integral numbers and integer literals.
func Int(r Reader[Raw]) Reader[int] {
	return coerce(r, IntOf)
}

// IntOf converts a Raw value to an int. Numbers with a fractional part
// are rejected.
func IntOf(raw Raw) (int, bool) {
	switch x := raw.(type) {
	case Number:
		f := float64(x)
		if math.Trunc(f) != f || f >= math.MaxInt64 || f < math.MinInt64 {
			return 0, false
		}
		return int(f), true
	case Text:
		n, err := strconv.Atoi(strings.TrimSpace(string(x)))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Bool coerces native booleans and their common textual encodings.
func Bool(r Reader[Raw]) Reader[bool] {
	return coerce(r, BoolOf)
}

// BoolOf converts a Raw value to a bool. Text is reduced to its letters
// and compared against True and False; failing that, it is parsed as an
// integer where any strictly positive value is true.
func BoolOf(raw Raw) (bool, bool) {
	switch x := raw.(type) {
	case Boolean:
		return bool(x), true
	case Text:
		switch titlecase(lettersOnly(string(x))) {
		case "True":
			return true, true
		case "False":
			return false, true
		}
		n, err := strconv.Atoi(strings.TrimSpace(string(x)))
		if err != nil {
			return false, false
		}
		return n > 0, true
	default:
		return false, false
	}
}

// List splits comma separated text into its trimmed elements.
func List(r Reader[Raw]) Reader[[]string] {
	return coerce(r, ListOf)
}

// ListOf converts a Raw value to a list of strings. Empty text yields an
// empty list.
func ListOf(raw Raw) ([]string, bool) {
	x, ok := raw.(Text)
	if !ok {
		return nil, false
	}
	s := strings.TrimSpace(string(x))
	if s == "" {
		return []string{}, true
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts, true
}

func lettersOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return -1
	}, s)
}

func titlecase(s string) string {
	if s == "" {
		return s
	}
	rs := []rune(strings.ToLower(s))
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs)
}
