// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"strconv"

	"github.com/z5labs/pgrest/config/key"
)

// Raw is a configuration value exactly as a source produced it, before it
// is coerced into a field type. The only implementations are [Text],
// [Number], [Boolean] and [Table].
type Raw interface {
	isRaw()
}

// Text is a textual configuration value.
type Text string

// Number is a numeric configuration value.
type Number float64

// Boolean is a native boolean configuration value.
type Boolean bool

// Entry is a single key value pair of a [Table].
type Entry struct {
	Key   string
	Value Raw
}

// Table is a nested group of configuration values. Entries keep the
// order in which the source defined them.
type Table []Entry

func (Text) isRaw()    {}
func (Number) isRaw()  {}
func (Boolean) isRaw() {}
func (Table) isRaw()   {}

// String returns the canonical textual form of the number.
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// String returns "true" or "false".
func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}

func (t Table) index(name string) int {
	for i, e := range t {
		if e.Key == name {
			return i
		}
	}
	return -1
}

// Lookup walks the table along the segments of k.
func (t Table) Lookup(k key.Keyer) (Raw, bool) {
	segs := key.Segments(k)
	if len(segs) == 0 {
		return nil, false
	}

	cur := t
	for i, seg := range segs {
		idx := cur.index(seg)
		if idx < 0 {
			return nil, false
		}
		v := cur[idx].Value
		if i == len(segs)-1 {
			return v, true
		}
		sub, ok := v.(Table)
		if !ok {
			return nil, false
		}
		cur = sub
	}
	return nil, false
}

// EmptyKeyError occurs when setting a value with a key that has no segments.
type EmptyKeyError struct {
	Value Raw
}

// Error implements the error interface.
func (e EmptyKeyError) Error() string {
	return fmt.Sprintf("attempted to set value to an empty key: %v", e.Value)
}

// UnexpectedKeyValueTypeError represents the situation when a nested key
// is set below a key which already holds a non-table value.
type UnexpectedKeyValueTypeError struct {
	Key string
}

// Error implements the error interface.
func (e UnexpectedKeyValueTypeError) Error() string {
	return fmt.Sprintf("expected key value to be a table: %s", e.Key)
}

// Set returns the table with v stored at k. Intermediate tables are
// created as needed and new keys are appended after existing ones.
func (t Table) Set(k key.Keyer, v Raw) (Table, error) {
	segs := key.Segments(k)
	if len(segs) == 0 {
		return t, EmptyKeyError{Value: v}
	}
	return t.set(segs, v)
}

func (t Table) set(segs []string, v Raw) (Table, error) {
	root := segs[0]
	idx := t.index(root)
	if len(segs) == 1 {
		if idx < 0 {
			return append(t, Entry{Key: root, Value: v}), nil
		}
		t[idx].Value = v
		return t, nil
	}

	var sub Table
	if idx >= 0 {
		x, ok := t[idx].Value.(Table)
		if !ok {
			return t, UnexpectedKeyValueTypeError{Key: root}
		}
		sub = x
	}

	sub, err := sub.set(segs[1:], v)
	if err != nil {
		return t, err
	}
	if idx < 0 {
		return append(t, Entry{Key: root, Value: sub}), nil
	}
	t[idx].Value = sub
	return t, nil
}
