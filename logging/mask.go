// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package logging

import (
	"context"
	"log/slog"
)

type maskOptions struct {
	attrs map[string]func(slog.Attr) slog.Attr
}

// MaskOption helps configure the MaskHandler.
type MaskOption interface {
	applyMaskOption(*maskOptions)
}

type maskOptionFunc func(*maskOptions)

func (f maskOptionFunc) applyMaskOption(opts *maskOptions) {
	f(opts)
}

// Attr registers a function for masking a slog.Attr given its key.
func Attr(key string, f func(slog.Attr) slog.Attr) MaskOption {
	return maskOptionFunc(func(o *maskOptions) {
		o.attrs[key] = f
	})
}

// Secrets masks every given key with [AnonymousStringAttr].
func Secrets(keys ...string) MaskOption {
	return maskOptionFunc(func(o *maskOptions) {
		for _, k := range keys {
			Attr(k, AnonymousStringAttr).applyMaskOption(o)
		}
	})
}

// AnonymousStringAttr is a helper function for converting any slog.Attr
// into the anonymized string, "****". It completely ignores the given
// slog.Attr value type and always return a string value.
func AnonymousStringAttr(a slog.Attr) slog.Attr {
	return slog.String(a.Key, "****")
}

// MaskHandler is an slog.Handler which masks record attributes, including
// those nested in groups, before passing them on.
type MaskHandler struct {
	slog  slog.Handler
	attrs map[string]func(slog.Attr) slog.Attr
}

// NewMaskHandler returns a new MaskHandler.
func NewMaskHandler(h slog.Handler, opts ...MaskOption) *MaskHandler {
	o := &maskOptions{
		attrs: make(map[string]func(slog.Attr) slog.Attr),
	}
	for _, opt := range opts {
		opt.applyMaskOption(o)
	}
	return &MaskHandler{
		slog:  h,
		attrs: o.attrs,
	}
}

func (h *MaskHandler) mask(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		masked := make([]any, len(group))
		for i, ga := range group {
			masked[i] = h.mask(ga)
		}
		return slog.Group(a.Key, masked...)
	}

	f, ok := h.attrs[a.Key]
	if !ok {
		return a
	}
	return f(a)
}

// Enabled implements the slog.Handler interface.
func (h *MaskHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return h.slog.Enabled(ctx, lvl)
}

// Handle implements the slog.Handler interface.
func (h *MaskHandler) Handle(ctx context.Context, record slog.Record) error {
	nr := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(a slog.Attr) bool {
		nr.AddAttrs(h.mask(a))
		return true
	})
	return h.slog.Handle(ctx, nr)
}

// WithAttrs implements the slog.Handler interface.
func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nr := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		nr[i] = h.mask(a)
	}
	return &MaskHandler{
		slog:  h.slog.WithAttrs(nr),
		attrs: h.attrs,
	}
}

// WithGroup implements the slog.Handler interface.
func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return &MaskHandler{
		slog:  h.slog.WithGroup(name),
		attrs: h.attrs,
	}
}
