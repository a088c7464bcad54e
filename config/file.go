// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"fmt"
	"os"
)

// ReadFileError occurs when a file referenced by configuration cannot be read.
type ReadFileError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e ReadFileError) Error() string {
	return fmt.Sprintf("failed to read file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ReadFileError) Unwrap() error {
	return e.Cause
}

// ReadFile returns a Reader for the full contents of the file at path.
// Any failure to read the file, including its absence, is an error.
func ReadFile(path string) Reader[[]byte] {
	return ReaderFunc[[]byte](func(ctx context.Context) (Value[[]byte], error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return Value[[]byte]{}, ReadFileError{Path: path, Cause: err}
		}
		return ValueOf(b), nil
	})
}
