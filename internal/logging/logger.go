// Package logging defines the structured-logging interface used across the
// client. Components receive a Logger at construction time; nothing logs
// through a package-level global.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key–value pairs:
//
//	log.Info(ctx, "page fetched", "limit", q.Limit, "offset", q.Offset)
type Logger interface {
	// Debug logs fine-grained events (cache hits, poll ticks).
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs normal lifecycle events.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs unusual but non-fatal conditions (best-effort logout failed).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
