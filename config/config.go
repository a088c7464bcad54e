// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
)

// ErrValueNotSet is returned by Read when the underlying Reader
// does not produce a value.
var ErrValueNotSet = errors.New("config value not set")

// Value represents a configuration value which may or may not be set.
type Value[T any] struct {
	val T
	set bool
}

// ValueOf returns a Value which is set to v.
func ValueOf[T any](v T) Value[T] {
	return Value[T]{val: v, set: true}
}

// Value returns the underlying value and whether it was set.
func (v Value[T]) Value() (T, bool) {
	return v.val, v.set
}

// Reader represents a source of a single configuration value.
type Reader[T any] interface {
	Read(context.Context) (Value[T], error)
}

// ReaderFunc is a func variant of the [Reader] interface.
type ReaderFunc[T any] func(context.Context) (Value[T], error)

// Read implements the [Reader] interface.
func (f ReaderFunc[T]) Read(ctx context.Context) (Value[T], error) {
	return f(ctx)
}

// ReaderOf returns a Reader which always returns v.
func ReaderOf[T any](v T) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return ValueOf(v), nil
	})
}

// EmptyReader returns a Reader which never has a value.
func EmptyReader[T any]() Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		return Value[T]{}, nil
	})
}

// Read reads the value from r. An unset value is reported as [ErrValueNotSet].
func Read[T any](ctx context.Context, r Reader[T]) (T, error) {
	var zero T
	v, err := r.Read(ctx)
	if err != nil {
		return zero, err
	}
	val, ok := v.Value()
	if !ok {
		return zero, ErrValueNotSet
	}
	return val, nil
}

// Default returns def whenever r does not produce a value.
func Default[T any](def T, r Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[T]{}, err
		}
		if _, ok := v.Value(); ok {
			return v, nil
		}
		return ValueOf(def), nil
	})
}

// Or returns the first set value of the given readers, in order.
func Or[T any](rs ...Reader[T]) Reader[T] {
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		for _, r := range rs {
			v, err := r.Read(ctx)
			if err != nil {
				return Value[T]{}, err
			}
			if _, ok := v.Value(); ok {
				return v, nil
			}
		}
		return Value[T]{}, nil
	})
}

// Map transforms a set value with f. Unset values stay unset.
func Map[T, U any](r Reader[T], f func(context.Context, T) (U, error)) Reader[U] {
	return ReaderFunc[U](func(ctx context.Context) (Value[U], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[U]{}, err
		}
		t, ok := v.Value()
		if !ok {
			return Value[U]{}, nil
		}
		u, err := f(ctx, t)
		if err != nil {
			return Value[U]{}, err
		}
		return ValueOf(u), nil
	})
}

// Bind uses a set value to choose the next Reader.
func Bind[T, U any](r Reader[T], f func(context.Context, T) Reader[U]) Reader[U] {
	return ReaderFunc[U](func(ctx context.Context) (Value[U], error) {
		v, err := r.Read(ctx)
		if err != nil {
			return Value[U]{}, err
		}
		t, ok := v.Value()
		if !ok {
			return Value[U]{}, nil
		}
		return f(ctx, t).Read(ctx)
	})
}

// Once memoizes the first result of r so repeated reads observe the
// same value even when the underlying source changes between reads.
func Once[T any](r Reader[T]) Reader[T] {
	var (
		done bool
		v    Value[T]
		err  error
	)
	return ReaderFunc[T](func(ctx context.Context) (Value[T], error) {
		if !done {
			v, err = r.Read(ctx)
			done = true
		}
		return v, err
	})
}
