// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

import (
	"context"
	"strings"
	"testing"

	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/config/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestHandle(t *testing.T) {
	t.Run("will fail if the initial config is invalid", func(t *testing.T) {
		_, err := NewHandle(context.Background(), Input{})

		var cerr Error
		require.ErrorAs(t, err, &cerr)
	})

	t.Run("will publish a reloaded config", func(t *testing.T) {
		h, err := NewHandle(context.Background(), Input{File: fileOf(t, minimal)})
		require.NoError(t, err)

		first := h.Config()
		require.Equal(t, []string{"api"}, first.DbSchemas)

		c, err := h.Reload(context.Background(), config.Overrides{"db-schemas": "v2"})
		require.NoError(t, err)
		require.Same(t, c, h.Config())
		require.Equal(t, []string{"v2"}, h.Config().DbSchemas)
		require.Equal(t, []string{"api"}, first.DbSchemas)
	})

	t.Run("will keep the current config if a reload fails", func(t *testing.T) {
		h, err := NewHandle(context.Background(), Input{File: fileOf(t, minimal)})
		require.NoError(t, err)
		before := h.Config()

		c, err := h.Reload(context.Background(), config.Overrides{"db-tx-end": "never"})
		require.Error(t, err)
		require.Same(t, before, c)
		require.Same(t, before, h.Config())
	})

	t.Run("will only use the latest overrides", func(t *testing.T) {
		h, err := NewHandle(context.Background(), Input{File: fileOf(t, minimal)})
		require.NoError(t, err)

		_, err = h.Reload(context.Background(), config.Overrides{"db-max-rows": "5"})
		require.NoError(t, err)
		_, err = h.Reload(context.Background(), config.Overrides{})
		require.NoError(t, err)
		require.Nil(t, h.Config().DbMaxRows)
	})

	t.Run("will serve readers while reloading", func(t *testing.T) {
		h, err := NewHandle(context.Background(), Input{File: fileOf(t, minimal)})
		require.NoError(t, err)

		var g errgroup.Group
		for i := 0; i < 8; i++ {
			g.Go(func() error {
				_, err := h.Reload(context.Background(), config.Overrides{"db-schemas": "a, b"})
				return err
			})
			g.Go(func() error {
				c := h.Config()
				assert.NotEmpty(t, c.DbSchemas)
				return nil
			})
		}
		require.NoError(t, g.Wait())
		require.Equal(t, []string{"a", "b"}, h.Config().DbSchemas)
	})
}

func TestExample(t *testing.T) {
	tbl, err := parse.Toml(strings.NewReader(Example))
	require.NoError(t, err)

	c, err := Resolve(context.Background(), Input{File: tbl})
	require.NoError(t, err)
	require.Equal(t, "postgres", c.DbAnonRole)
	require.Equal(t, []string{"public"}, c.DbSchemas)
	require.Equal(t, "postgresql://", c.DbUri)
}
