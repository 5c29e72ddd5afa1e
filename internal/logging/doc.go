// Package logging assembles structured slog loggers and formatting helpers used
// across weathertag commands.
//
// It owns the console and JSON handlers, level parsing and output plumbing,
// and context-aware helpers that tag log lines with the run ID and photo
// being processed. A no-op logger is provided for tests and for wiring code
// that has no logger to pass.
package logging
