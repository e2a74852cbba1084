// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/renderer/logger.go
// Summary: Package-level logger, silent by default.

package renderer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled always reports false so callers
// never pay for formatting a message nobody will see.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool   { return false }
func (nopHandler) Handle(context.Context, slog.Record) error  { return nil }
func (h nopHandler) WithAttrs([]slog.Attr) slog.Handler       { return h }
func (h nopHandler) WithGroup(string) slog.Handler            { return h }

func newNopLogger() *slog.Logger {
	return slog.New(nopHandler{})
}

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger installs the logger the render core writes to. The core logs a
// failed BindOutput in Paint at Error level; it emits no per-frame traces.
// Passing nil restores silence.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

func logger() *slog.Logger {
	return loggerPtr.Load()
}
