package weatherlog

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const minFields = 5

var (
	dateLayouts = []string{
		"1/2/2006",
		"1-2-2006",
		"2006-1-2",
		"2006/1/2",
	}
	clockLayouts = []string{
		"3:04 PM",
		"3:04:05 PM",
		"15:04",
		"15:04:05",
	}
)

// ErrInvalidTimestamp reports a date/time pair no supported layout accepts.
var ErrInvalidTimestamp = errors.New("unrecognised timestamp")

// Stats summarises what ParseRows kept and dropped.
type Stats struct {
	Rows          int
	Readings      int
	Short         int
	BadTimestamp  int
	Malformed     int
	Unparseable   int
	OutOfRange    int
	HeaderSkipped bool
}

// Dropped returns the number of rows that produced no reading, excluding a
// skipped header.
func (s Stats) Dropped() int {
	return s.Short + s.BadTimestamp + s.Malformed
}

// ParseRows converts raw log rows into a series. It never fails: defective
// rows are dropped and defective measurements become absent.
func ParseRows(rows [][]string) (Series, Stats) {
	stats := Stats{Rows: len(rows)}
	readings := make([]Reading, 0, len(rows))

	for idx, row := range rows {
		if len(row) < minFields {
			stats.Short++
			continue
		}
		ts, err := ParseTimestamp(row[0], row[1])
		if err != nil {
			if idx == 0 {
				stats.HeaderSkipped = true
			} else {
				stats.BadTimestamp++
			}
			continue
		}

		reading := Reading{Timestamp: ts}
		for i, field := range Fields() {
			value, outcome := parseMeasurement(field, row[2+i])
			switch outcome {
			case outcomeUnparseable:
				stats.Unparseable++
			case outcomeOutOfRange:
				stats.OutOfRange++
			}
			switch field {
			case Temperature:
				reading.Temperature = value
			case Humidity:
				reading.Humidity = value
			case Pressure:
				reading.Pressure = value
			}
		}
		readings = append(readings, reading)
	}

	stats.Readings = len(readings)
	return NewSeries(readings), stats
}

// ParseTimestamp combines a date and a time-of-day column. Dates may be
// M/D/YYYY, M-D-YYYY or YYYY-M-D; times may be 12-hour with an AM/PM marker
// or 24-hour, with optional seconds.
func ParseTimestamp(date, clock string) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = normalizeClock(clock)
	if date == "" || clock == "" {
		return time.Time{}, ErrInvalidTimestamp
	}
	value := date + " " + clock
	for _, dl := range dateLayouts {
		for _, cl := range clockLayouts {
			if ts, err := time.Parse(dl+" "+cl, value); err == nil {
				return ts, nil
			}
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// normalizeClock upper-cases the meridiem and makes sure it is separated from
// the digits by exactly one space ("4:44am" -> "4:44 AM").
func normalizeClock(clock string) string {
	clock = strings.ToUpper(strings.TrimSpace(clock))
	for _, marker := range []string{"AM", "PM"} {
		if rest, ok := strings.CutSuffix(clock, marker); ok {
			return strings.TrimSpace(rest) + " " + marker
		}
	}
	return clock
}

type measurementOutcome int

const (
	outcomeValue measurementOutcome = iota
	outcomeEmpty
	outcomeUnparseable
	outcomeOutOfRange
)

// ParseMeasurement extracts a number from decorated text such as "24.0 °C",
// "88%" or "1,012.02 hPa". Everything except digits, '.' and '-' is removed
// before parsing; the result is absent when nothing numeric remains, when the
// remainder is not a number, or when it lies outside the field's range.
func ParseMeasurement(field Field, raw string) Value {
	value, _ := parseMeasurement(field, raw)
	return value
}

func parseMeasurement(field Field, raw string) (Value, measurementOutcome) {
	cleaned := strings.Map(keepNumeric, raw)
	if cleaned == "" {
		return Value{}, outcomeEmpty
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return Value{}, outcomeUnparseable
	}
	if !field.InRange(parsed) {
		return Value{}, outcomeOutOfRange
	}
	return Some(parsed), outcomeValue
}

func keepNumeric(r rune) rune {
	if (r >= '0' && r <= '9') || r == '.' || r == '-' {
		return r
	}
	return -1
}
