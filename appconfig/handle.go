// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package appconfig

import (
	"context"
	"sync/atomic"

	"github.com/z5labs/pgrest/config"
)

// Handle publishes the current Config. Readers always observe a complete
// Config and a failed reload leaves the published one in place.
type Handle struct {
	in  Input
	cur atomic.Pointer[Config]
}

// NewHandle resolves the initial Config from in.
func NewHandle(ctx context.Context, in Input) (*Handle, error) {
	c, err := Resolve(ctx, in)
	if err != nil {
		return nil, err
	}

	h := &Handle{in: in}
	h.cur.Store(c)
	return h, nil
}

// Config returns the currently published Config.
func (h *Handle) Config() *Config {
	return h.cur.Load()
}

// Reload resolves a new Config with a fresh snapshot of runtime overrides
// and publishes it if resolution succeeds.
func (h *Handle) Reload(ctx context.Context, overrides config.Overrides) (*Config, error) {
	in := h.in
	in.Overrides = overrides

	c, err := Resolve(ctx, in)
	if err != nil {
		return h.cur.Load(), err
	}
	h.cur.Store(c)
	return c, nil
}
