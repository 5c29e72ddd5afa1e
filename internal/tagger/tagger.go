package tagger

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"weathertag/internal/logging"
	"weathertag/internal/matcher"
	"weathertag/internal/services"
	"weathertag/internal/weatherlog"
)

// TimestampReader extracts a photo's capture time.
type TimestampReader interface {
	CaptureTime(ctx context.Context, path string) (time.Time, error)
}

// MetadataWriter persists a matched reading into a photo.
type MetadataWriter interface {
	WriteReading(ctx context.Context, path string, reading weatherlog.Reading) error
}

// Options are the matching parameters for a run.
type Options struct {
	ThresholdMinutes float64
	Write            bool
}

// Item is the outcome for a single photo.
type Item struct {
	Path        string
	Name        string
	CaptureTime time.Time
	Result      matcher.Result
	Written     bool
	ReadErr     error
	WriteErr    error
}

// HasCaptureTime reports whether the reader produced a timestamp.
func (i Item) HasCaptureTime() bool {
	return i.ReadErr == nil && !i.CaptureTime.IsZero()
}

// Summary tallies a run.
type Summary struct {
	Total       int `json:"total"`
	Matched     int `json:"matched"`
	NoTimestamp int `json:"no_timestamp"`
	NoReading   int `json:"no_reading"`
	Written     int `json:"written"`
	WriteFailed int `json:"write_failed"`
}

// Add folds item into the tally.
func (s *Summary) Add(item Item) {
	s.Total++
	switch item.Result.Status {
	case matcher.Matched:
		s.Matched++
	case matcher.NoTargetTimestamp:
		s.NoTimestamp++
	case matcher.NoReadingWithinThreshold:
		s.NoReading++
	}
	if item.Written {
		s.Written++
	}
	if item.WriteErr != nil {
		s.WriteFailed++
	}
}

// Tagger matches photos against a series.
type Tagger struct {
	reader TimestampReader
	writer MetadataWriter
	opts   Options
	logger *slog.Logger
}

// New constructs a Tagger. writer may be nil when opts.Write is false.
func New(reader TimestampReader, writer MetadataWriter, opts Options, logger *slog.Logger) *Tagger {
	return &Tagger{
		reader: reader,
		writer: writer,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "tagger"),
	}
}

// Process matches a single photo.
func (t *Tagger) Process(ctx context.Context, path string, series weatherlog.Series) Item {
	item := Item{Path: path, Name: filepath.Base(path)}
	ctx = services.WithPhoto(ctx, item.Name)
	logger := t.logger.With(logging.String(logging.FieldPhoto, item.Name))

	target := matcher.NoTarget()
	captured, err := t.reader.CaptureTime(ctx, path)
	if err != nil {
		item.ReadErr = err
		logger.Debug("capture time unavailable",
			logging.Error(err),
			logging.String("error_kind", services.Kind(err)),
		)
	} else {
		item.CaptureTime = captured
		target = matcher.TargetAt(captured)
	}

	item.Result = matcher.FindMatch(target, series, t.opts.ThresholdMinutes)
	logger.Debug("photo matched",
		logging.String("status", item.Result.Status.String()),
		logging.Float64("delta_minutes", item.Result.DeltaMinutes),
	)

	if !t.opts.Write || !item.Result.Matched() || t.writer == nil {
		return item
	}
	if err := t.writer.WriteReading(ctx, path, *item.Result.Nearest); err != nil {
		item.WriteErr = err
		logging.WarnWithContext(logger, "metadata write failed", "metadata_write_failed",
			logging.Error(err),
		)
		return item
	}
	item.Written = true
	return item
}

// Run processes paths in order, calling onItem after each photo. It stops
// between photos when ctx is cancelled and returns the partial summary with
// ctx.Err().
func (t *Tagger) Run(ctx context.Context, paths []string, series weatherlog.Series, onItem func(Item)) (Summary, error) {
	var summary Summary
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		item := t.Process(ctx, path, series)
		summary.Add(item)
		if onItem != nil {
			onItem(item)
		}
	}
	t.logger.Info("match run complete",
		logging.Int("photos", summary.Total),
		logging.Int("matched", summary.Matched),
		logging.Int("no_timestamp", summary.NoTimestamp),
		logging.Int("no_reading", summary.NoReading),
		logging.Int("written", summary.Written),
		logging.Int("write_failed", summary.WriteFailed),
	)
	return summary, nil
}
