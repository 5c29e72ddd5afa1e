package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"weathertag/internal/matcher"
	"weathertag/internal/services"
	"weathertag/internal/tagger"
	"weathertag/internal/weatherlog"
)

const (
	placeholder     = "-"
	timestampLayout = time.DateTime
)

func formatNaive(ts time.Time) string {
	if ts.IsZero() {
		return placeholder
	}
	return ts.Format(timestampLayout)
}

func formatDelta(minutes float64) string {
	if math.IsInf(minutes, 0) || math.IsNaN(minutes) {
		return placeholder
	}
	return strconv.FormatFloat(minutes, 'f', 1, 64)
}

func formatDeltaPtr(minutes *float64) string {
	if minutes == nil {
		return placeholder
	}
	return formatDelta(*minutes)
}

func formatValue(v weatherlog.Value) string {
	return v.Format(placeholder)
}

// matchHeaders and itemRow define the per-photo report table.
var matchHeaders = []string{"Photo", "Captured", "Status", "Δ min", "Temp °C", "Humidity %", "Pressure hPa", "Written"}

var matchAligns = []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}

func itemRow(item tagger.Item, write, colorize bool) []string {
	status := item.Result.Status
	row := []string{
		item.Name,
		placeholder,
		colorizeText(status.String(), matchStatusKind(status), colorize),
		formatDelta(item.Result.DeltaMinutes),
		placeholder,
		placeholder,
		placeholder,
		writtenLabel(item, write),
	}
	if item.HasCaptureTime() {
		row[1] = formatNaive(item.CaptureTime)
	}
	if item.Result.Matched() {
		reading := item.Result.Nearest
		row[4] = formatValue(reading.Temperature)
		row[5] = formatValue(reading.Humidity)
		row[6] = formatValue(reading.Pressure)
	}
	return row
}

func writtenLabel(item tagger.Item, write bool) string {
	switch {
	case !write:
		return "preview"
	case item.Written:
		return "yes"
	case item.WriteErr != nil:
		return "failed (" + services.Kind(item.WriteErr) + ")"
	case item.Result.Status == matcher.Matched:
		return "no"
	default:
		return placeholder
	}
}

func summaryLine(summary tagger.Summary, write bool) string {
	parts := []string{
		fmt.Sprintf("Photos: %d", summary.Total),
		fmt.Sprintf("Matched: %d", summary.Matched),
		fmt.Sprintf("No timestamp: %d", summary.NoTimestamp),
		fmt.Sprintf("No reading: %d", summary.NoReading),
	}
	if write {
		parts = append(parts,
			fmt.Sprintf("Written: %d", summary.Written),
			fmt.Sprintf("Write failed: %d", summary.WriteFailed),
		)
	}
	return strings.Join(parts, "  ")
}

func logStatsLine(stats weatherlog.Stats) string {
	line := fmt.Sprintf("Log: %d readings from %d rows", stats.Readings, stats.Rows)
	var notes []string
	if stats.HeaderSkipped {
		notes = append(notes, "header skipped")
	}
	if dropped := stats.Dropped(); dropped > 0 {
		notes = append(notes, fmt.Sprintf("%d rows dropped", dropped))
	}
	if stats.OutOfRange > 0 {
		notes = append(notes, fmt.Sprintf("%d values out of range", stats.OutOfRange))
	}
	if stats.Unparseable > 0 {
		notes = append(notes, fmt.Sprintf("%d values unparseable", stats.Unparseable))
	}
	if len(notes) > 0 {
		line += " (" + strings.Join(notes, ", ") + ")"
	}
	return line
}

type jsonReading struct {
	Timestamp   string   `json:"timestamp"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	Pressure    *float64 `json:"pressure"`
}

func toJSONReading(r weatherlog.Reading) jsonReading {
	return jsonReading{
		Timestamp:   r.Timestamp.Format(timestampLayout),
		Temperature: valuePtr(r.Temperature),
		Humidity:    valuePtr(r.Humidity),
		Pressure:    valuePtr(r.Pressure),
	}
}

func valuePtr(v weatherlog.Value) *float64 {
	if f, ok := v.Get(); ok {
		return &f
	}
	return nil
}

func deltaPtr(minutes float64) *float64 {
	if math.IsInf(minutes, 0) || math.IsNaN(minutes) {
		return nil
	}
	return &minutes
}

type jsonLogStats struct {
	Rows          int  `json:"rows"`
	Readings      int  `json:"readings"`
	Dropped       int  `json:"dropped"`
	OutOfRange    int  `json:"out_of_range"`
	Unparseable   int  `json:"unparseable"`
	HeaderSkipped bool `json:"header_skipped"`
}

func toJSONLogStats(stats weatherlog.Stats) jsonLogStats {
	return jsonLogStats{
		Rows:          stats.Rows,
		Readings:      stats.Readings,
		Dropped:       stats.Dropped(),
		OutOfRange:    stats.OutOfRange,
		Unparseable:   stats.Unparseable,
		HeaderSkipped: stats.HeaderSkipped,
	}
}
