package main

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"weathertag/internal/matcher"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("ExifTool", statusError, "not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "ExifTool:", "[ERROR] not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("ExifTool", statusOK, "ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestStatusKinds(t *testing.T) {
	if matchStatusKind(matcher.Matched) != statusOK {
		t.Fatal("matched should render as OK")
	}
	if matchStatusKind(matcher.NoReadingWithinThreshold) != statusWarn {
		t.Fatal("no_reading should render as WARN")
	}
	if historyStatusKind("no_timestamp") != statusError {
		t.Fatal("stored no_timestamp should render as ERROR")
	}
	if historyStatusKind("bogus") != statusInfo {
		t.Fatal("unknown labels should render as INFO")
	}
}

func TestColorizeText(t *testing.T) {
	if got := colorizeText("matched", statusOK, false); got != "matched" {
		t.Fatalf("expected plain text, got %q", got)
	}
	if got := colorizeText("matched", statusOK, true); got != ansiGreen+"matched"+ansiReset {
		t.Fatalf("unexpected colored text %q", got)
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}

func TestFormatDelta(t *testing.T) {
	cases := map[float64]string{
		6:           "6.0",
		0.5:         "0.5",
		math.Inf(1): placeholder,
	}
	for input, want := range cases {
		if got := formatDelta(input); got != want {
			t.Fatalf("formatDelta(%v) = %q, want %q", input, got, want)
		}
	}
	if got := formatDeltaPtr(nil); got != placeholder {
		t.Fatalf("formatDeltaPtr(nil) = %q", got)
	}
}
