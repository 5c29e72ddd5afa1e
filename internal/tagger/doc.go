// Package tagger runs the per-photo loop: read the capture time, match it
// against the measurement series, and optionally write the matched reading
// back into the photo.
//
// The metadata capabilities are injected as interfaces so the loop can run
// against the exiftool client in production and deterministic fakes in tests.
// Every per-photo failure is classified and tallied; only context
// cancellation stops a run early.
package tagger
