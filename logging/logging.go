// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package logging builds the structured loggers used while resolving
// and serving configuration.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// SecretKeys are the attribute keys which never leave a logger unmasked.
var SecretKeys = []string{"jwt-secret", "db-uri"}

// New returns a JSON logger writing to w at the given level. Attributes
// named by [SecretKeys] are masked.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(NewMaskHandler(h, Secrets(SecretKeys...)))
}

// Discard returns a logger which drops every record.
func Discard() *slog.Logger {
	return slog.New(discardHandler{})
}

type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
