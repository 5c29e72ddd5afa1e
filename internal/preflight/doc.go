// Package preflight verifies the environment before a match run touches any
// photo: the exiftool binary, the state directory, the measurement log and the
// photo directory.
//
// Checks return Result values instead of errors so the CLI can print every
// problem at once.
package preflight
