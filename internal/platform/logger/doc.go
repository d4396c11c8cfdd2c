// Package logger configures structured JSON logging with log/slog and
// carries request-scoped loggers and request IDs through context.Context.
package logger
