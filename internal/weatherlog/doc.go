// Package weatherlog turns a loosely formatted weather-station export into an
// ordered series of readings.
//
// Station logs arrive as comma-separated text with inconsistent date and time
// styles, unit suffixes glued to the numbers ("24.0 °C", "1,012.02 hPa") and
// the occasional header or broken row. ParseRows applies the tolerance rules:
// short rows and rows with an unreadable timestamp are dropped, a header is
// recognised only as the first row, and each measurement is reduced to its
// digits before parsing. Values that cannot be parsed or fall outside the
// physical range of their field become absent rather than zero.
//
// Load wraps ParseRows with file access. It is the only operation in the
// package that can fail; malformed content never does.
//
// Timestamps are naive wall-clock values. They carry time.UTC only as a
// neutral location so they compare without conversion against capture times
// parsed the same way.
package weatherlog
