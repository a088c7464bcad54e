// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides a functional approach to reading and composing configuration values.
//
// The package is built around the concept of a Reader[T], which represents a source of
// configuration values that may or may not be present. Readers can be composed using
// functional combinators to build complex configuration logic from simple building blocks.
//
// # Core Concepts
//
// Value[T] represents a configuration value that may or may not be set. This distinguishes
// between "not set" and "set to zero value", which is important for configuration with defaults.
//
// Raw is the untyped value a source produces: Text, Number, Boolean or a nested Table.
// The coercion readers String, Int, Bool and List turn a Reader[Raw] into a typed Reader,
// reporting untypeable input as unset instead of failing.
//
// # Sources and precedence
//
// A resolution pass reads from three snapshots bundled in Sources: a parsed file Table,
// a prefix-filtered Environ and host supplied Overrides. Resolve applies the ladder
//
//	overrides (reloadable keys only) > environment > file
//
// and the caller applies a default or fails when nothing is set:
//
//	pool, err := config.Read(ctx,
//	    config.Default(10, config.Int(config.Resolve(srcs, key.Name("db-pool")))),
//	)
//
// Try multiple keys in order:
//
//	schemas := config.Or(
//	    config.Resolve(srcs, key.Name("db-schemas")),
//	    config.Resolve(srcs, key.Name("db-schema")),
//	)
//
// # Error Handling
//
// Readers distinguish between three states:
//   - Value is set (returns Value with set=true)
//   - Value is not set (returns Value with set=false, no error)
//   - Error occurred (returns error)
//
// The Read function converts "not set" to ErrValueNotSet for convenience.
package config
