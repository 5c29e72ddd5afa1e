package history

import (
	"database/sql"
	"errors"
	"time"

	"weathertag/internal/weatherlog"
)

// Fixed-width so lexical order matches chronological order.
const (
	instantLayout = "2006-01-02T15:04:05.000000000Z"
	naiveLayout   = time.DateTime
)

func formatInstant(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(instantLayout)
}

func formatNaive(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(naiveLayout)
}

func parseInstant(value sql.NullString) time.Time {
	if !value.Valid || value.String == "" {
		return time.Time{}
	}
	t, err := time.Parse(instantLayout, value.String)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseNaive(value sql.NullString) time.Time {
	if !value.Valid || value.String == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(naiveLayout, value.String, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableValue(v weatherlog.Value) any {
	if f, ok := v.Get(); ok {
		return f
	}
	return nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func valueFrom(v sql.NullFloat64) weatherlog.Value {
	if !v.Valid {
		return weatherlog.Value{}
	}
	return weatherlog.Some(v.Float64)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

const runColumns = "id, started_at, finished_at, log_path, photo_dir, threshold_minutes, write_enabled, readings, total, matched, no_timestamp, no_reading, written, write_failed, interrupted"

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		startedRaw  sql.NullString
		finishedRaw sql.NullString
		write       int
		interrupted int
	)
	if err := scanner.Scan(
		&run.ID,
		&startedRaw,
		&finishedRaw,
		&run.LogPath,
		&run.PhotoDir,
		&run.ThresholdMinutes,
		&write,
		&run.Readings,
		&run.Total,
		&run.Matched,
		&run.NoTimestamp,
		&run.NoReading,
		&run.Written,
		&run.WriteFailed,
		&interrupted,
	); err != nil {
		return Run{}, err
	}
	run.StartedAt = parseInstant(startedRaw)
	run.FinishedAt = parseInstant(finishedRaw)
	run.Write = write != 0
	run.Interrupted = interrupted != 0
	return run, nil
}

func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var (
		entry       Entry
		captureRaw  sql.NullString
		readingRaw  sql.NullString
		delta       sql.NullFloat64
		temperature sql.NullFloat64
		humidity    sql.NullFloat64
		pressure    sql.NullFloat64
		written     int
		errText     sql.NullString
	)
	if err := scanner.Scan(
		&entry.Photo,
		&captureRaw,
		&entry.Status,
		&delta,
		&readingRaw,
		&temperature,
		&humidity,
		&pressure,
		&written,
		&errText,
	); err != nil {
		return Entry{}, err
	}
	entry.CaptureTime = parseNaive(captureRaw)
	entry.ReadingTime = parseNaive(readingRaw)
	if delta.Valid {
		d := delta.Float64
		entry.DeltaMinutes = &d
	}
	entry.Temperature = valueFrom(temperature)
	entry.Humidity = valueFrom(humidity)
	entry.Pressure = valueFrom(pressure)
	entry.Written = written != 0
	entry.Error = errText.String
	return entry, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
