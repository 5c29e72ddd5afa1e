package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"weathertag/internal/services"
	"weathertag/internal/weatherlog"
)

// CaptureTimeLayout is the fixed-width layout exiftool is asked to emit.
const CaptureTimeLayout = "2006:01:02 15:04:05"

const (
	defaultBinary = "exiftool"
	dateFormatArg = "%Y:%m:%d %H:%M:%S"
	component     = "exiftool"
	waitDelay     = 2 * time.Second
)

var (
	// ErrNoCaptureTime indicates the file carries no usable capture-time tag.
	ErrNoCaptureTime = errors.New("no capture time in metadata")
	// ErrNothingToWrite indicates the reading has no present measurements.
	ErrNothingToWrite = errors.New("reading has no measurements to write")
)

// EXIF 2.31 environmental tags.
var writeTags = map[weatherlog.Field]string{
	weatherlog.Temperature: "AmbientTemperature",
	weatherlog.Humidity:    "Humidity",
	weatherlog.Pressure:    "Pressure",
}

var zeroUpdated = regexp.MustCompile(`(?m)^\s*0 image files updated`)

// Client invokes exiftool with a per-call timeout.
type Client struct {
	Binary  string
	Timeout time.Duration
}

// New constructs a client. An empty binary falls back to "exiftool" on PATH.
func New(binary string, timeout time.Duration) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = defaultBinary
	}
	return &Client{Binary: binary, Timeout: timeout}
}

// ParseCaptureTime parses exiftool's fixed capture-time format. The result is
// a naive timestamp carried in UTC.
func ParseCaptureTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if len(value) != len(CaptureTimeLayout) {
		return time.Time{}, fmt.Errorf("capture time %q: expected %s", value, CaptureTimeLayout)
	}
	ts, err := time.ParseInLocation(CaptureTimeLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("capture time %q: %w", value, err)
	}
	return ts, nil
}

// CaptureTime returns DateTimeOriginal, falling back to CreateDate.
func (c *Client) CaptureTime(ctx context.Context, path string) (time.Time, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return time.Time{}, services.Wrap(services.ErrValidation, component, "read capture time", "empty path", nil)
	}

	out, err := c.run(ctx, "read capture time", "-s3", "-d", dateFormatArg, "-DateTimeOriginal", "-CreateDate", safePath(path))
	if err != nil {
		return time.Time{}, err
	}

	// Warnings go to stderr; only stdout carries tag values.
	for _, line := range strings.Split(out.stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ts, err := ParseCaptureTime(line)
		if err != nil {
			return time.Time{}, services.Wrap(services.ErrExternalTool, component, "read capture time", path, err)
		}
		return ts, nil
	}
	return time.Time{}, services.Wrap(services.ErrNotFound, component, "read capture time", path, ErrNoCaptureTime)
}

// WriteReading persists the present fields of reading into path, overwriting
// the file in place. Absent fields are left untouched.
func (c *Client) WriteReading(ctx context.Context, path string, reading weatherlog.Reading) error {
	if strings.TrimSpace(path) == "" {
		return services.Wrap(services.ErrValidation, component, "write reading", "empty path", nil)
	}
	if !reading.HasMeasurements() {
		return services.Wrap(services.ErrValidation, component, "write reading", path, ErrNothingToWrite)
	}

	out, err := c.run(ctx, "write reading", WriteArgs(path, reading)...)
	if err != nil {
		return err
	}
	if zeroUpdated.MatchString(out.stdout) {
		return services.Wrap(services.ErrExternalTool, component, "write reading", path, errors.New(firstLine(out.detail())))
	}
	return nil
}

// WriteArgs returns the exiftool arguments WriteReading uses for reading.
func WriteArgs(path string, reading weatherlog.Reading) []string {
	args := []string{"-overwrite_original"}
	for _, field := range weatherlog.Fields() {
		value := reading.Value(field)
		if !value.Present() {
			continue
		}
		args = append(args, fmt.Sprintf("-%s=%s", writeTags[field], value.Format("")))
	}
	return append(args, safePath(path))
}

type toolOutput struct {
	stdout string
	stderr string
}

// detail prefers the tool's diagnostics over its regular output.
func (o toolOutput) detail() string {
	if msg := strings.TrimSpace(o.stderr); msg != "" {
		return msg
	}
	return strings.TrimSpace(o.stdout)
}

func (c *Client) run(ctx context.Context, operation string, args ...string) (toolOutput, error) {
	runCtx := ctx
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Binary, args...) //nolint:gosec
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	out := toolOutput{stdout: stdout.String(), stderr: stderr.String()}
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return toolOutput{}, services.Wrap(services.ErrTimeout, component, operation, fmt.Sprintf("exceeded %s", c.Timeout), runCtx.Err())
		}
		detail := out.detail()
		if detail == "" {
			detail = "command failed"
		}
		return toolOutput{}, services.Wrap(services.ErrExternalTool, component, operation, detail, err)
	}
	return out, nil
}

// exiftool reads a bare "-" as stdin and other dash-prefixed names as options.
func safePath(path string) string {
	if strings.HasPrefix(path, "-") {
		return "./" + path
	}
	return path
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return strings.TrimSpace(s[:idx])
	}
	return s
}
