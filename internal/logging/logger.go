// Package logging is the structured logger the controller, stores and CLI
// write through. New builds the slog-backed one from the configured level.
package logging

import "context"

// Logger takes a message plus key/value pairs:
//
//	log.Info(ctx, "capture requested", "request_id", id, "output", path)
//
// Controllers tag their child logger with session_id via With, so every
// line of one editing session can be grepped together.
type Logger interface {
	// Debug is for ignored capture results and other state-machine no-ops.
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	// Warn marks recoverable trouble: failed captures, orphaned files.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}
