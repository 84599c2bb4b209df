// Package logging assembles the structured slog loggers used across
// alacflac.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes small attribute helpers so every component tags
// its lines the same way. Diagnostic logs are kept apart from the
// human-readable progress lines the CLI prints on stdout: by default they
// go to stderr, optionally mirrored to a log file.
//
// A no-op logger is provided for tests and for wiring code that is handed
// a nil logger.
package logging
