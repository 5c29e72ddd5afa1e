// Package config loads, normalizes, and validates weathertag configuration.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the WEATHERTAG_EXIFTOOL environment fallback. The
// matching knobs (threshold and write mode) are exposed as a plain value via
// MatchOptions so the core never reads ambient state.
package config
