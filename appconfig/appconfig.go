// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package appconfig assembles the typed server configuration from a file,
// the environment and live runtime overrides.
package appconfig

import (
	"io/fs"
	"log/slog"

	"github.com/z5labs/pgrest/jspath"

	"github.com/go-jose/go-jose/v4"
)

// Config is a fully resolved and validated configuration. It is never
// modified once built; a reload produces a new Config.
type Config struct {
	DbAnonRole           string
	DbChannel            string
	DbChannelEnabled     bool
	DbConfig             bool
	DbExtraSearchPath    []string
	DbMaxRows            *int
	DbPoolSize           int
	DbPoolTimeout        int
	DbPreRequest         string
	DbPreparedStatements bool
	DbRootSpec           string
	DbSchemas            []string
	DbTxEnd              TxEnd
	DbUri                string

	JwtAudience       string
	JwtRoleClaimKey   jspath.Path
	JwtSecret         []byte
	JwtSecretIsBase64 bool

	// JwtKeySet is derived from JwtSecret and is nil exactly when it is.
	JwtKeySet *jose.JSONWebKeySet

	LogLevel              LogLevel
	OpenAPIServerProxyURI string
	RawMediaTypes         []string

	ServerHost           string
	ServerPort           int
	ServerUnixSocket     string
	ServerUnixSocketMode fs.FileMode

	AppSettings []Setting
}

// Setting is a free form application setting from app.settings.
type Setting struct {
	Name  string
	Value string
}

// LogLevel is the configured logging verbosity.
type LogLevel int

const (
	LogCrit LogLevel = iota
	LogError
	LogWarn
	LogInfo
)

// ParseLogLevel parses one of crit, error, warn or info.
func ParseLogLevel(s string) (LogLevel, error) {
	switch s {
	case "crit":
		return LogCrit, nil
	case "error":
		return LogError, nil
	case "warn":
		return LogWarn, nil
	case "info":
		return LogInfo, nil
	default:
		return 0, FieldError{
			Key: keyLogLevel.Key(),
			Msg: "Invalid logging level. Check your configuration.",
		}
	}
}

// String implements the [fmt.Stringer] interface.
func (l LogLevel) String() string {
	switch l {
	case LogCrit:
		return "crit"
	case LogWarn:
		return "warn"
	case LogInfo:
		return "info"
	default:
		return "error"
	}
}

// SlogLevel maps the level onto slog. crit sits above slog.LevelError.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LogCrit:
		return slog.LevelError + 4
	case LogWarn:
		return slog.LevelWarn
	case LogInfo:
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}

// TxEnd is how transactions end. The zero value commits.
type TxEnd struct {
	RollbackAll   bool
	AllowOverride bool
}

var txEnds = map[string]TxEnd{
	"commit":                  {},
	"commit-allow-override":   {AllowOverride: true},
	"rollback":                {RollbackAll: true},
	"rollback-allow-override": {RollbackAll: true, AllowOverride: true},
}

// ParseTxEnd parses one of commit, commit-allow-override, rollback or
// rollback-allow-override.
func ParseTxEnd(s string) (TxEnd, error) {
	t, ok := txEnds[s]
	if !ok {
		return TxEnd{}, FieldError{
			Key: keyDbTxEnd.Key(),
			Msg: "Invalid transaction termination. Check your configuration.",
		}
	}
	return t, nil
}

// String re-derives the literal mode from the two flags.
func (t TxEnd) String() string {
	s := "commit"
	if t.RollbackAll {
		s = "rollback"
	}
	if t.AllowOverride {
		s += "-allow-override"
	}
	return s
}
