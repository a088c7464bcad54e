// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package pgsettings reads runtime configuration overrides stored in the
// database as pgrst.* settings of the authenticated role.
package pgsettings

import (
	"context"
	"fmt"
	"strings"

	"github.com/z5labs/pgrest/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// Query selects every pgrst.* setting of the current role. Settings for
// the current database win over role wide ones.
const Query = `
WITH
role_setting AS (
  SELECT setdatabase AS database,
         unnest(setconfig) AS setting
  FROM   pg_catalog.pg_db_role_setting
  WHERE  setrole = CURRENT_USER::regrole::oid
    AND  setdatabase IN (0, (SELECT oid FROM pg_catalog.pg_database WHERE datname = CURRENT_CATALOG))
),
kv_settings AS (
  SELECT database,
         substr(setting, 1, strpos(setting, '=') - 1) AS k,
         substr(setting, strpos(setting, '=') + 1)    AS v
  FROM   role_setting
  WHERE  setting LIKE 'pgrst.%'
)
SELECT DISTINCT ON (key)
       replace(k, 'pgrst.', '') AS key,
       v                        AS value
FROM   kv_settings
ORDER  BY key, database DESC`

// Setting is a single row returned by [Query].
type Setting struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// Querier is the subset of *sqlx.DB used to read settings.
type Querier interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// QueryError occurs if the settings could not be read.
type QueryError struct {
	Cause error
}

// Error implements the error interface.
func (e QueryError) Error() string {
	return fmt.Sprintf("failed to read database settings: %s", e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e QueryError) Unwrap() error {
	return e.Cause
}

// Fetch reads the settings and keys them by configuration key,
// e.g. pgrst.db_schemas becomes db-schemas.
func Fetch(ctx context.Context, q Querier) (config.Overrides, error) {
	var rows []Setting
	err := q.SelectContext(ctx, &rows, Query)
	if err != nil {
		return nil, QueryError{Cause: err}
	}

	o := make(config.Overrides, len(rows))
	for _, r := range rows {
		o[KeyOf(r.Key)] = r.Value
	}
	return o, nil
}

// KeyOf maps a setting name, with or without its pgrst. prefix, to a
// configuration key.
func KeyOf(name string) string {
	name = strings.TrimPrefix(name, "pgrst.")
	return strings.ReplaceAll(name, "_", "-")
}

// Open connects to the database at dsn using the pgx driver.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	return sqlx.ConnectContext(ctx, "pgx", dsn)
}
