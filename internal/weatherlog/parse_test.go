package weatherlog_test

import (
	"math"
	"testing"
	"time"

	"weathertag/internal/weatherlog"
)

func mustValue(t *testing.T, v weatherlog.Value, want float64) {
	t.Helper()
	got, ok := v.Get()
	if !ok {
		t.Fatalf("expected value %v, got absent", want)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("expected value %v, got %v", want, got)
	}
}

func TestParseRowsDecoratedValues(t *testing.T) {
	rows := [][]string{{"11/17/2025", "4:44 AM", "24.0 °C", "88 %", "1,012.02 hPa"}}

	series, stats := weatherlog.ParseRows(rows)
	if series.Len() != 1 {
		t.Fatalf("expected 1 reading, got %d", series.Len())
	}
	if stats.HeaderSkipped {
		t.Fatal("data row must not be treated as header")
	}
	r := series.At(0)
	want := time.Date(2025, 11, 17, 4, 44, 0, 0, time.UTC)
	if !r.Timestamp.Equal(want) {
		t.Fatalf("unexpected timestamp: got %s want %s", r.Timestamp, want)
	}
	mustValue(t, r.Temperature, 24.0)
	mustValue(t, r.Humidity, 88)
	mustValue(t, r.Pressure, 1012.02)
}

func TestParseRowsSkipsHeaderOnlyOnFirstRow(t *testing.T) {
	rows := [][]string{
		{"Date", "Time", "Temp", "Humidity", "Pressure"},
		{"11/17/2025", "4:44 AM", "24.0", "88", "1012.02"},
		{"Date", "Time", "Temp", "Humidity", "Pressure"},
	}

	series, stats := weatherlog.ParseRows(rows)
	if series.Len() != 1 {
		t.Fatalf("expected 1 reading, got %d", series.Len())
	}
	if !stats.HeaderSkipped {
		t.Fatal("expected header to be skipped")
	}
	if stats.BadTimestamp != 1 {
		t.Fatalf("expected the repeated header to count as a bad row, got %d", stats.BadTimestamp)
	}
}

func TestParseRowsFirstRowWithoutHeader(t *testing.T) {
	rows := [][]string{
		{"11/17/2025", "4:44 AM", "24.0", "88", "1012.02"},
		{"garbage", "row", "1", "2", "3"},
	}
	series, stats := weatherlog.ParseRows(rows)
	if series.Len() != 1 {
		t.Fatalf("expected 1 reading, got %d", series.Len())
	}
	if stats.HeaderSkipped {
		t.Fatal("header flag must only be set when the first row fails")
	}
	if stats.BadTimestamp != 1 {
		t.Fatalf("expected 1 bad timestamp row, got %d", stats.BadTimestamp)
	}
}

func TestParseRowsDropsShortRows(t *testing.T) {
	rows := [][]string{
		{"11/17/2025", "4:44 AM", "24.0", "88"},
		{"11/17/2025"},
		{},
		{"11/17/2025", "5:44 AM", "25.0", "80", "1010"},
	}
	series, stats := weatherlog.ParseRows(rows)
	if series.Len() != 1 {
		t.Fatalf("expected 1 reading, got %d", series.Len())
	}
	if stats.Short != 3 {
		t.Fatalf("expected 3 short rows, got %d", stats.Short)
	}
	if stats.Dropped() != 3 {
		t.Fatalf("expected 3 dropped rows, got %d", stats.Dropped())
	}
	if got := series.At(0).Timestamp.Hour(); got != 5 {
		t.Fatalf("expected surviving reading at 05:44, got hour %d", got)
	}
}

func TestParseRowsOutOfRangeBecomesAbsent(t *testing.T) {
	rows := [][]string{{"11/17/2025", "4:44 AM", "200", "88", "1012.02"}}
	series, stats := weatherlog.ParseRows(rows)
	if series.Len() != 1 {
		t.Fatalf("expected row to be kept, got %d readings", series.Len())
	}
	r := series.At(0)
	if r.Temperature.Present() {
		t.Fatalf("expected temperature absent, got %s", r.Temperature.Format("-"))
	}
	mustValue(t, r.Humidity, 88)
	mustValue(t, r.Pressure, 1012.02)
	if stats.OutOfRange != 1 {
		t.Fatalf("expected 1 out-of-range value, got %d", stats.OutOfRange)
	}
}

func TestParseRowsSortsStably(t *testing.T) {
	rows := [][]string{
		{"11/17/2025", "06:00", "3", "30", "1003"},
		{"11/17/2025", "05:00", "1", "10", "1001"},
		{"11/17/2025", "06:00", "4", "40", "1004"},
		{"11/17/2025", "04:00", "0", "0", "1000"},
	}
	series, _ := weatherlog.ParseRows(rows)
	if series.Len() != 4 {
		t.Fatalf("expected 4 readings, got %d", series.Len())
	}
	wantTemps := []float64{0, 1, 3, 4}
	for i, want := range wantTemps {
		mustValue(t, series.At(i).Temperature, want)
	}
	for i := 1; i < series.Len(); i++ {
		if series.At(i).Timestamp.Before(series.At(i - 1).Timestamp) {
			t.Fatalf("series not sorted at index %d", i)
		}
	}
}

func TestParseRowsIsDeterministic(t *testing.T) {
	rows := [][]string{
		{"Date", "Time", "T", "H", "P"},
		{"11/17/2025", "7:10 PM", "12", "50", "1000"},
		{"11-17-2025", "08:00", "10 °C", "55%", "999 hPa"},
		{"bad"},
		{"11/17/2025", "7:10 PM", "13", "51", "1001"},
	}
	first, firstStats := weatherlog.ParseRows(rows)
	second, secondStats := weatherlog.ParseRows(rows)
	if firstStats != secondStats {
		t.Fatalf("stats differ: %+v vs %+v", firstStats, secondStats)
	}
	a, b := first.Readings(), second.Readings()
	if len(a) != len(b) {
		t.Fatalf("length differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("reading %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestParseTimestampFormatInvariance(t *testing.T) {
	want := time.Date(2025, 11, 17, 4, 44, 0, 0, time.UTC)
	cases := []struct {
		date  string
		clock string
	}{
		{"11/17/2025", "4:44 AM"},
		{"11-17-2025", "04:44"},
		{"11/17/2025", "04:44:00"},
		{"11-17-2025", "4:44:00 AM"},
		{"11/17/2025", "4:44am"},
		{" 11/17/2025 ", " 4:44 am "},
		{"2025-11-17", "04:44"},
	}
	for _, tc := range cases {
		got, err := weatherlog.ParseTimestamp(tc.date, tc.clock)
		if err != nil {
			t.Fatalf("%s %s: unexpected error %v", tc.date, tc.clock, err)
		}
		if !got.Equal(want) {
			t.Fatalf("%s %s: got %s want %s", tc.date, tc.clock, got, want)
		}
	}
}

func TestParseTimestampPM(t *testing.T) {
	got, err := weatherlog.ParseTimestamp("1/2/2026", "12:05 PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 1, 2, 12, 5, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %s want %s", got, want)
	}
	got, err = weatherlog.ParseTimestamp("1/2/2026", "12:05 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 0 {
		t.Fatalf("expected midnight hour, got %d", got.Hour())
	}
}

func TestParseTimestampRejects(t *testing.T) {
	cases := [][2]string{
		{"Date", "Time"},
		{"", "4:44 AM"},
		{"11/17/2025", ""},
		{"17/17/2025", "4:44 AM"},
		{"11/17/2025", "25:00"},
		{"11/17/25", "4:44 AM"},
	}
	for _, tc := range cases {
		if _, err := weatherlog.ParseTimestamp(tc[0], tc[1]); err == nil {
			t.Fatalf("expected %q %q to be rejected", tc[0], tc[1])
		}
	}
}

func TestParseMeasurementStripsUnits(t *testing.T) {
	cases := []struct {
		field     weatherlog.Field
		decorated string
		plain     string
		want      float64
	}{
		{weatherlog.Temperature, "24.0 °C", "24.0", 24.0},
		{weatherlog.Temperature, " -3.5°C ", "-3.5", -3.5},
		{weatherlog.Humidity, "88%", "88", 88},
		{weatherlog.Humidity, "88 %", "88", 88},
		{weatherlog.Pressure, "1,012.02 hPa", "1012.02", 1012.02},
		{weatherlog.Pressure, "hPa 1013", "1013", 1013},
	}
	for _, tc := range cases {
		decorated := weatherlog.ParseMeasurement(tc.field, tc.decorated)
		plain := weatherlog.ParseMeasurement(tc.field, tc.plain)
		if decorated != plain {
			t.Fatalf("%q and %q parsed differently", tc.decorated, tc.plain)
		}
		mustValue(t, decorated, tc.want)
	}
}

func TestParseMeasurementAbsent(t *testing.T) {
	cases := []struct {
		field weatherlog.Field
		raw   string
	}{
		{weatherlog.Temperature, ""},
		{weatherlog.Temperature, "n/a"},
		{weatherlog.Temperature, "°C"},
		{weatherlog.Temperature, "-"},
		{weatherlog.Temperature, "1.2.3"},
		{weatherlog.Temperature, "150.1"},
		{weatherlog.Temperature, "-100.5"},
		{weatherlog.Humidity, "101"},
		{weatherlog.Humidity, "-1"},
		{weatherlog.Pressure, "799.9"},
		{weatherlog.Pressure, "1100.01"},
	}
	for _, tc := range cases {
		if v := weatherlog.ParseMeasurement(tc.field, tc.raw); v.Present() {
			t.Fatalf("%s %q: expected absent, got %s", tc.field, tc.raw, v.Format("-"))
		}
	}
}

func TestParseMeasurementRangeBoundsInclusive(t *testing.T) {
	for _, field := range weatherlog.Fields() {
		lo, hi := field.Range()
		for _, v := range []float64{lo, hi} {
			raw := weatherlog.Some(v).Format("")
			mustValue(t, weatherlog.ParseMeasurement(field, raw), v)
		}
	}
}

func TestValueFormat(t *testing.T) {
	if got := (weatherlog.Value{}).Format("-"); got != "-" {
		t.Fatalf("expected placeholder, got %q", got)
	}
	if got := weatherlog.Some(1012.02).Format("-"); got != "1012.02" {
		t.Fatalf("unexpected format: %q", got)
	}
}
