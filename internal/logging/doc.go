// Package logging builds the slog loggers used across the transcriber.
//
// It maps config values (level, format, log directory) onto slog handlers and
// exposes small attr helpers so call sites stay terse.
package logging
