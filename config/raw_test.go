// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"testing"

	"github.com/z5labs/pgrest/config/key"

	"github.com/stretchr/testify/require"
)

func writeFile(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o600)
}

func TestTable_Set(t *testing.T) {
	t.Run("will keep insertion order", func(t *testing.T) {
		var tbl Table
		var err error
		for _, k := range []string{"db-uri", "app.settings.b", "app.settings.a", "db-pool"} {
			tbl, err = tbl.Set(key.Parse(k), Text(k))
			require.NoError(t, err)
		}

		require.Len(t, tbl, 3)
		require.Equal(t, "db-uri", tbl[0].Key)
		require.Equal(t, "app", tbl[1].Key)
		require.Equal(t, "db-pool", tbl[2].Key)

		settings, ok := tbl.Lookup(key.Parse("app.settings"))
		require.True(t, ok)
		require.Equal(t, Table{
			{Key: "b", Value: Text("app.settings.b")},
			{Key: "a", Value: Text("app.settings.a")},
		}, settings)
	})

	t.Run("will overwrite an existing value in place", func(t *testing.T) {
		tbl, err := Table{{Key: "a", Value: Number(1)}, {Key: "b", Value: Number(2)}}.Set(key.Name("a"), Number(3))
		require.NoError(t, err)
		require.Equal(t, Table{{Key: "a", Value: Number(3)}, {Key: "b", Value: Number(2)}}, tbl)
	})

	t.Run("will return an error if a scalar is used as a table", func(t *testing.T) {
		_, err := Table{{Key: "app", Value: Text("x")}}.Set(key.Parse("app.settings"), Text("y"))

		var kerr UnexpectedKeyValueTypeError
		require.ErrorAs(t, err, &kerr)
		require.Equal(t, "app", kerr.Key)
	})
}

func TestTable_Lookup(t *testing.T) {
	tbl := Table{
		{Key: "db-pool", Value: Number(10)},
		{Key: "app", Value: Table{
			{Key: "settings", Value: Table{{Key: "x", Value: Text("y")}}},
		}},
	}

	testCases := []struct {
		name      string
		key       key.Keyer
		expected  Raw
		expectSet bool
	}{
		{name: "top level", key: key.Name("db-pool"), expected: Number(10), expectSet: true},
		{name: "nested", key: key.Parse("app.settings.x"), expected: Text("y"), expectSet: true},
		{name: "missing", key: key.Name("db-uri")},
		{name: "through a scalar", key: key.Parse("db-pool.x")},
		{name: "on nil table", key: key.Name("db-pool")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := tbl
			if tc.name == "on nil table" {
				src = nil
			}
			v, ok := src.Lookup(tc.key)
			require.Equal(t, tc.expectSet, ok)
			require.Equal(t, tc.expected, v)
		})
	}
}
