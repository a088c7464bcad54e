// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue_Value(t *testing.T) {
	testCases := []struct {
		name        string
		value       Value[int]
		expectedVal int
		expectedOk  bool
	}{
		{
			name:        "set value",
			value:       ValueOf(42),
			expectedVal: 42,
			expectedOk:  true,
		},
		{
			name:        "unset value",
			value:       Value[int]{},
			expectedVal: 0,
			expectedOk:  false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, ok := tc.value.Value()
			require.Equal(t, tc.expectedOk, ok)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestRead(t *testing.T) {
	testCases := []struct {
		name        string
		reader      Reader[string]
		expectedVal string
		expectErr   error
	}{
		{
			name:        "returns value when set",
			reader:      ReaderOf("test"),
			expectedVal: "test",
		},
		{
			name: "returns error when reader fails",
			reader: ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
				return Value[string]{}, errors.New("read failed")
			}),
			expectErr: errors.New("read failed"),
		},
		{
			name:      "returns error when value not set",
			reader:    EmptyReader[string](),
			expectErr: ErrValueNotSet,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Read(context.Background(), tc.reader)
			if tc.expectErr != nil {
				require.Error(t, err)
				if tc.expectErr == ErrValueNotSet {
					require.ErrorIs(t, err, ErrValueNotSet)
				}
				require.Zero(t, val)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestDefault(t *testing.T) {
	testCases := []struct {
		name        string
		reader      Reader[string]
		expectedVal string
		expectErr   bool
	}{
		{
			name:        "returns original value when set",
			reader:      ReaderOf("original"),
			expectedVal: "original",
		},
		{
			name:        "returns default when value not set",
			reader:      EmptyReader[string](),
			expectedVal: "default",
		},
		{
			name: "propagates error",
			reader: ReaderFunc[string](func(ctx context.Context) (Value[string], error) {
				return Value[string]{}, errors.New("read failed")
			}),
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Read(context.Background(), Default("default", tc.reader))
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectedVal, val)
		})
	}
}

func TestOr(t *testing.T) {
	testCases := []struct {
		name        string
		readers     []Reader[int]
		expectedVal int
		expectSet   bool
		expectErr   bool
	}{
		{
			name:        "returns first set value",
			readers:     []Reader[int]{EmptyReader[int](), ReaderOf(42), ReaderOf(99)},
			expectedVal: 42,
			expectSet:   true,
		},
		{
			name:      "returns unset when no readers have value",
			readers:   []Reader[int]{EmptyReader[int](), EmptyReader[int]()},
			expectSet: false,
		},
		{
			name: "propagates error",
			readers: []Reader[int]{
				EmptyReader[int](),
				ReaderFunc[int](func(ctx context.Context) (Value[int], error) {
					return Value[int]{}, errors.New("read failed")
				}),
			},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			val, err := Or(tc.readers...).Read(context.Background())
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			v, ok := val.Value()
			require.Equal(t, tc.expectSet, ok)
			if tc.expectSet {
				require.Equal(t, tc.expectedVal, v)
			}
		})
	}
}

func TestMap(t *testing.T) {
	double := func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	}

	t.Run("maps value when set", func(t *testing.T) {
		v, err := Read(context.Background(), Map(ReaderOf(21), double))
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("returns unset when reader returns unset", func(t *testing.T) {
		_, err := Read(context.Background(), Map(EmptyReader[int](), double))
		require.ErrorIs(t, err, ErrValueNotSet)
	})

	t.Run("propagates mapper error", func(t *testing.T) {
		mapErr := errors.New("map failed")
		r := Map(ReaderOf(1), func(ctx context.Context, n int) (int, error) {
			return 0, mapErr
		})
		_, err := Read(context.Background(), r)
		require.ErrorIs(t, err, mapErr)
	})
}

func TestBind(t *testing.T) {
	t.Run("binds value when set", func(t *testing.T) {
		r := Bind(ReaderOf("key"), func(ctx context.Context, s string) Reader[int] {
			return ReaderOf(len(s))
		})
		v, err := Read(context.Background(), r)
		require.NoError(t, err)
		require.Equal(t, 3, v)
	})

	t.Run("returns unset when reader returns unset", func(t *testing.T) {
		r := Bind(EmptyReader[string](), func(ctx context.Context, s string) Reader[int] {
			return ReaderOf(42)
		})
		_, err := Read(context.Background(), r)
		require.ErrorIs(t, err, ErrValueNotSet)
	})
}

func TestOnce(t *testing.T) {
	calls := 0
	r := Once[int](ReaderFunc[int](func(ctx context.Context) (Value[int], error) {
		calls++
		return ValueOf(calls), nil
	}))

	first, err := Read(context.Background(), r)
	require.NoError(t, err)
	second, err := Read(context.Background(), r)
	require.NoError(t, err)
	require.Equal(t, 1, first)
	require.Equal(t, first, second)
	require.Equal(t, 1, calls)
}

func TestReadFile(t *testing.T) {
	t.Run("reads existing file", func(t *testing.T) {
		path := t.TempDir() + "/secret.txt"
		require.NoError(t, writeFile(path, "contents"))

		b, err := Read(context.Background(), ReadFile(path))
		require.NoError(t, err)
		require.Equal(t, "contents", string(b))
	})

	t.Run("errors for non-existent file", func(t *testing.T) {
		_, err := Read(context.Background(), ReadFile("/non/existent/file/path/xyz.txt"))

		var rerr ReadFileError
		require.ErrorAs(t, err, &rerr)
		require.Equal(t, "/non/existent/file/path/xyz.txt", rerr.Path)
	})
}
