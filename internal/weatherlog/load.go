package weatherlog

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"weathertag/internal/logging"
)

// ErrLogUnavailable reports that the log file could not be opened or read.
// It is the only fatal condition for a run.
var ErrLogUnavailable = errors.New("weather log unavailable")

// Load reads the comma-separated log at path and parses it. A leading UTF-8
// byte order mark is ignored, quoted fields may contain commas, and lines the
// CSV reader rejects (including an unclosed quote) are counted as malformed
// and skipped one line at a time.
func Load(ctx context.Context, path string, logger *slog.Logger) (Series, Stats, error) {
	logger = logging.NewComponentLogger(logger, "weatherlog")
	path = strings.TrimSpace(path)
	if path == "" {
		return Series{}, Stats{}, fmt.Errorf("%w: empty path", ErrLogUnavailable)
	}

	file, err := os.Open(path)
	if err != nil {
		return Series{}, Stats{}, fmt.Errorf("%w: %w", ErrLogUnavailable, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return Series{}, Stats{}, fmt.Errorf("%w: stat %s: %w", ErrLogUnavailable, path, err)
	}
	if info.IsDir() {
		return Series{}, Stats{}, fmt.Errorf("%w: %s is a directory", ErrLogUnavailable, path)
	}

	rows, malformed, err := readRows(ctx, file)
	if err != nil {
		return Series{}, Stats{}, err
	}

	series, stats := ParseRows(rows)
	stats.Malformed = malformed
	if stats.HeaderSkipped {
		logger.Info("skipped header row", logging.String("path", path))
	}
	logger.Debug("weather log parsed",
		logging.String("path", path),
		logging.Int("rows", stats.Rows),
		logging.Int("readings", stats.Readings),
		logging.Int("dropped", stats.Dropped()),
		logging.Int("out_of_range", stats.OutOfRange),
		logging.Int("unparseable", stats.Unparseable),
	)
	return series, stats, nil
}

// maxLineBytes bounds a single log line.
const maxLineBytes = 1 << 20

// readRows splits the log into lines and decodes each line as one CSV record,
// so a broken row never consumes the rows after it. Lines with an unclosed
// quoted field or a CSV syntax error are counted as malformed. Blank lines
// are ignored.
func readRows(ctx context.Context, r io.Reader) ([][]string, int, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var (
		rows      [][]string
		malformed int
	)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if unterminatedQuote(line) {
			malformed++
			continue
		}
		record, err := parseLine(line)
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				malformed++
				continue
			}
			return nil, 0, fmt.Errorf("%w: read: %w", ErrLogUnavailable, err)
		}
		if record != nil {
			rows = append(rows, record)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: read: %w", ErrLogUnavailable, err)
	}
	return rows, malformed, nil
}

func parseLine(line string) ([]string, error) {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	record, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return record, err
}

// unterminatedQuote reports whether a field in line opens with a quote that is
// never closed. A quote inside an unquoted field, as in 25 "C, is literal.
func unterminatedQuote(line string) bool {
	inQuotes := false
	fieldStart := true
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inQuotes:
			if c == '"' {
				if i+1 < len(line) && line[i+1] == '"' {
					i++
					continue
				}
				inQuotes = false
			}
		case c == ',':
			fieldStart = true
			continue
		case fieldStart && (c == ' ' || c == '\t'):
			continue
		case fieldStart && c == '"':
			inQuotes = true
		}
		fieldStart = false
	}
	return inQuotes
}
