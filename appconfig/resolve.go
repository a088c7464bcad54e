// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

import (
	"context"
	"log/slog"

	"github.com/z5labs/pgrest/config"
	"github.com/z5labs/pgrest/config/key"
	"github.com/z5labs/pgrest/config/parse"
	"github.com/z5labs/pgrest/jspath"
	"github.com/z5labs/pgrest/jwk"
	"github.com/z5labs/pgrest/logging"
)

// Error is returned for any failure to resolve a configuration.
type Error struct {
	Cause error
}

// Error implements the error interface.
func (e Error) Error() string {
	return "Error in config: " + e.Cause.Error()
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e Error) Unwrap() error {
	return e.Cause
}

// Input holds the snapshots a single resolution pass reads from.
type Input struct {
	// File is the parsed configuration file, nil if there is none.
	File config.Table

	Env       config.Environ
	Overrides config.Overrides

	// Reloadable defaults to the package level [Reloadable].
	Reloadable config.Reloadable

	Logger *slog.Logger
}

// LoadFile parses the configuration file at path, if any, into in and
// resolves it.
func LoadFile(ctx context.Context, path string, in Input) (*Config, error) {
	t, err := parse.File(path)
	if err != nil {
		return nil, Error{Cause: err}
	}
	in.File = t
	return Resolve(ctx, in)
}

// Resolve assembles a Config from in. Resolution stops at the first
// invalid or missing value.
func Resolve(ctx context.Context, in Input) (*Config, error) {
	log := in.Logger
	if log == nil {
		log = logging.Discard()
	}
	reloadable := in.Reloadable
	if reloadable == nil {
		reloadable = Reloadable
	}

	origins := make(map[string]config.Origin)
	a := &assembler{
		ctx: ctx,
		log: log,
		srcs: config.Sources{
			File:       in.File,
			Env:        in.Env,
			Overrides:  in.Overrides,
			Reloadable: reloadable,
			OnResolve: func(k key.Keyer, o config.Origin) {
				origins[k.Key()] = o
			},
		},
	}

	cfg := a.assemble()
	if a.err != nil {
		return nil, Error{Cause: a.err}
	}

	byOrigin := make(map[string][]string)
	for _, k := range Keys {
		o, ok := origins[k.Key()]
		if !ok {
			continue
		}
		src := o.String()
		if o == config.OriginNone {
			src = "default"
		}
		byOrigin[src] = append(byOrigin[src], k.Key())
	}
	var attrs []any
	for _, src := range []string{"override", "env", "file", "default"} {
		if ks, ok := byOrigin[src]; ok {
			attrs = append(attrs, slog.Any(src, ks))
		}
	}
	log.DebugContext(ctx, "resolved configuration", slog.Group("sources", attrs...))
	return cfg, nil
}

type assembler struct {
	ctx  context.Context
	log  *slog.Logger
	srcs config.Sources
	err  error
}

func (a *assembler) raw(k key.Keyer) config.Reader[config.Raw] {
	return config.Resolve(a.srcs, k)
}

func read[T any](a *assembler, r config.Reader[T]) (T, bool) {
	var zero T
	if a.err != nil {
		return zero, false
	}
	v, err := r.Read(a.ctx)
	if err != nil {
		a.err = err
		return zero, false
	}
	return v.Value()
}

func optionalField[T any](a *assembler, r config.Reader[T]) (T, bool) {
	return read(a, r)
}

func requireField[T any](a *assembler, r config.Reader[T], missing error) T {
	v, ok := read(a, r)
	if !ok && a.err == nil {
		a.err = missing
	}
	return v
}

func defaultField[T any](a *assembler, def T, r config.Reader[T]) T {
	v, ok := read(a, config.Default(def, r))
	if !ok {
		return def
	}
	return v
}

func check[T, U any](f func(T) (U, error)) func(context.Context, T) (U, error) {
	return func(_ context.Context, t T) (U, error) {
		return f(t)
	}
}

func (a *assembler) assemble() *Config {
	var c Config

	c.DbAnonRole = requireField(a, config.String(a.raw(keyDbAnonRole)), MissingFieldError{Key: keyDbAnonRole.Key()})
	c.DbChannel = defaultField(a, "pgrst", config.String(a.raw(keyDbChannel)))
	c.DbChannelEnabled = defaultField(a, false, config.Bool(a.raw(keyDbChannelEnabled)))
	c.DbConfig = defaultField(a, true, config.Bool(a.raw(keyDbConfig)))
	c.DbExtraSearchPath = defaultField(a, []string{"public"}, config.List(a.raw(keyDbExtraSearchPath)))
	if n, ok := optionalField(a, config.Int(a.raw(keyDbMaxRows))); ok {
		c.DbMaxRows = &n
	}
	c.DbPoolSize = defaultField(a, 10, config.Map(config.Int(a.raw(keyDbPool)), check(positive(keyDbPool))))
	c.DbPoolTimeout = defaultField(a, 10, config.Map(config.Int(a.raw(keyDbPoolTimeout)), check(positive(keyDbPoolTimeout))))
	c.DbPreRequest, _ = optionalField(a, config.String(a.raw(keyDbPreRequest)))
	c.DbPreparedStatements = defaultField(a, true, config.Bool(a.raw(keyDbPreparedStatements)))
	c.DbRootSpec, _ = optionalField(a, config.String(a.raw(keyDbRootSpec)))

	schemas := config.Or(
		config.List(a.raw(keyDbSchemas)),
		config.List(a.raw(keyDbSchema)),
	)
	c.DbSchemas = requireField(
		a,
		config.Map(schemas, check(nonEmpty)),
		MissingFieldError{Key: keyDbSchemas.Key(), Alias: keyDbSchema.Key()},
	)

	// both flags must come from the same read of db-tx-end
	txEnd := config.Once(config.Map(config.String(a.raw(keyDbTxEnd)), check(ParseTxEnd)))
	c.DbTxEnd.RollbackAll = defaultField(a, false, config.Map(txEnd, func(_ context.Context, t TxEnd) (bool, error) {
		return t.RollbackAll, nil
	}))
	c.DbTxEnd.AllowOverride = defaultField(a, false, config.Map(txEnd, func(_ context.Context, t TxEnd) (bool, error) {
		return t.AllowOverride, nil
	}))

	c.DbUri = requireField(a, config.Bind(config.String(a.raw(keyDbUri)), jwk.Indirect), MissingFieldError{Key: keyDbUri.Key()})

	c.JwtAudience, _ = optionalField(a, config.Map(config.String(a.raw(keyJwtAud)), check(ValidateAudience)))
	c.JwtRoleClaimKey = defaultField(a, jspath.Default, config.Map(config.String(a.raw(keyJwtRoleClaimKey)), check(ParseRoleClaimKey)))
	c.JwtSecretIsBase64 = defaultField(a, false, config.Bool(a.raw(keyJwtSecretIsBase64)))

	secret := config.Map(config.Bind(config.String(a.raw(keyJwtSecret)), jwk.Indirect), func(_ context.Context, s string) ([]byte, error) {
		return jwk.DecodeSecret(s, c.JwtSecretIsBase64)
	})
	// empty secret bytes count as unset so JwtKeySet is nil iff JwtSecret is
	if b, ok := optionalField(a, secret); ok && len(b) > 0 {
		var kind jwk.Kind
		c.JwtSecret = b
		c.JwtKeySet, kind = jwk.BuildKeySet(b)
		a.log.DebugContext(a.ctx, "derived jwt key set", slog.String("kind", kind.String()), slog.Int("keys", len(c.JwtKeySet.Keys)))
	}

	c.LogLevel = defaultField(a, LogError, config.Map(config.String(a.raw(keyLogLevel)), check(ParseLogLevel)))
	c.OpenAPIServerProxyURI, _ = optionalField(a, config.Map(config.String(a.raw(keyOpenAPIServerProxyURI)), check(ValidateProxyURI)))
	c.RawMediaTypes = defaultField(a, []string{}, config.List(a.raw(keyRawMediaTypes)))
	c.ServerHost = defaultField(a, "!4", config.String(a.raw(keyServerHost)))
	c.ServerPort = defaultField(a, 3000, config.Int(a.raw(keyServerPort)))
	c.ServerUnixSocket, _ = optionalField(a, config.String(a.raw(keyServerUnixSocket)))
	c.ServerUnixSocketMode = defaultField(a, 0o660, config.Map(config.String(a.raw(keyServerUnixSocketMode)), check(ParseSocketMode)))

	c.AppSettings = a.appSettings()
	return &c
}

// appSettings merges app.settings from the file, in document order, with
// PGRST_APP_SETTINGS_* variables. The environment wins for names both
// define and names only it defines are appended.
func (a *assembler) appSettings() []Setting {
	if a.err != nil {
		return nil
	}

	var settings []Setting
	index := make(map[string]int)
	set := func(name, value string) {
		if i, ok := index[name]; ok {
			settings[i].Value = value
			return
		}
		index[name] = len(settings)
		settings = append(settings, Setting{Name: name, Value: value})
	}

	if raw, ok := a.srcs.File.Lookup(keyAppSettings); ok {
		if t, ok := raw.(config.Table); ok {
			flatten("", t, set)
		}
	}
	for _, e := range a.srcs.Env.Under(keyAppSettings) {
		set(e.Key, settingText(e.Value))
	}
	return settings
}

func flatten(prefix string, t config.Table, f func(name, value string)) {
	for _, e := range t {
		name := e.Key
		if prefix != "" {
			name = prefix + "." + e.Key
		}
		if sub, ok := e.Value.(config.Table); ok {
			flatten(name, sub, f)
			continue
		}
		f(name, settingText(e.Value))
	}
}

func settingText(raw config.Raw) string {
	if s, ok := raw.(config.Text); ok {
		return string(s)
	}
	s, _ := config.TextOf(raw)
	return s
}
