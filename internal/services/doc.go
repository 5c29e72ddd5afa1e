// Package services defines shared utilities consumed by the matching pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and photo names for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     collaborator failures (missing tool, timeout, bad output) without
//     parsing message text.
//
// Use these helpers when wiring new integrations so error reporting and
// observability stay uniform across commands.
package services
