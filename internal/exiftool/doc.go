// Package exiftool wraps the exiftool command-line utility for the two
// metadata capabilities weathertag needs: reading a photo's capture time and
// writing matched ambient readings back into the file.
//
// Capture times come back in the fixed exiftool date format and are parsed
// strictly; anything else is treated as a tool failure rather than guessed at.
package exiftool
