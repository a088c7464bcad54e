// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/z5labs/pgrest/appconfig"
	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/config/parse"
	"github.com/z5labs/pgrest/internal/try"
	"github.com/z5labs/pgrest/logging"
	"github.com/z5labs/pgrest/pgsettings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// EnvFileError occurs if the --env-file cannot be read.
type EnvFileError struct {
	Path  string
	Cause error
}

// Error implements the error interface.
func (e EnvFileError) Error() string {
	return fmt.Sprintf("failed to read env file %s: %s", e.Path, e.Cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e EnvFileError) Unwrap() error {
	return e.Cause
}

// OverridesFunc fetches a fresh snapshot of runtime overrides.
type OverridesFunc func(ctx context.Context, c *appconfig.Config) (config.Overrides, error)

type options struct {
	dumpConfig bool
	example    bool
	envFile    string
	dbConfig   bool
}

// newCommand builds the root command. environ is the process environment
// in os.Environ form and is captured once.
func newCommand(environ []string) *cobra.Command {
	return buildCommand(environ, fetchOverrides)
}

func buildCommand(environ []string, overrides OverridesFunc) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "pgrest [FILENAME]",
		Short:         "Resolve and validate the server configuration",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			defer try.Recover(&err)

			if opts.example {
				_, err = io.WriteString(cmd.OutOrStdout(), appconfig.Example)
				return err
			}

			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), path, environ, opts, overrides)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.dumpConfig, "dump-config", false, "print the resolved configuration and exit")
	flags.BoolVar(&opts.example, "example", false, "print an example configuration file and exit")
	flags.StringVar(&opts.envFile, "env-file", "", "read additional PGRST_ variables from a dotenv file")
	flags.BoolVar(&opts.dbConfig, "db-config", false, "apply pgrst.* settings stored in the database")
	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, path string, environ []string, opts options, overrides OverridesFunc) error {
	vars, err := snapshot(environ, opts.envFile)
	if err != nil {
		return err
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelError)
	log := logging.New(stderr, level)

	tbl, err := parse.File(path)
	if err != nil {
		return appconfig.Error{Cause: err}
	}

	h, err := appconfig.NewHandle(ctx, appconfig.Input{
		File:   tbl,
		Env:    config.NewEnviron(appconfig.EnvPrefix, vars),
		Logger: log,
	})
	if err != nil {
		return err
	}
	c := h.Config()
	level.Set(c.LogLevel.SlogLevel())

	if opts.dbConfig && c.DbConfig {
		o, err := overrides(ctx, c)
		if err != nil {
			return err
		}
		c, err = h.Reload(ctx, o)
		if err != nil {
			return err
		}
		log.InfoContext(ctx, "applied database settings", slog.Int("settings", len(o)))
	}

	if opts.dumpConfig {
		return appconfig.Dump(stdout, c)
	}
	log.InfoContext(
		ctx,
		"configuration is valid",
		slog.String("log-level", c.LogLevel.String()),
		slog.String("db-uri", c.DbUri),
		slog.String("jwt-secret", string(c.JwtSecret)),
	)
	return nil
}

// snapshot captures the environment, with variables from envFile filling
// in any the process does not set.
func snapshot(environ []string, envFile string) (map[string]string, error) {
	vars := env.ToMap(environ)
	if envFile == "" {
		return vars, nil
	}

	fileVars, err := godotenv.Read(envFile)
	if err != nil {
		return nil, EnvFileError{Path: envFile, Cause: err}
	}
	for k, v := range fileVars {
		if _, ok := vars[k]; !ok {
			vars[k] = v
		}
	}
	return vars, nil
}

func fetchOverrides(ctx context.Context, c *appconfig.Config) (_ config.Overrides, err error) {
	db, err := pgsettings.Open(ctx, c.DbUri)
	if err != nil {
		return nil, err
	}
	defer try.Close(&err, db)

	return pgsettings.Fetch(ctx, db)
}
