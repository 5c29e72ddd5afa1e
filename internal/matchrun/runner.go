package matchrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"weathertag/internal/history"
	"weathertag/internal/logging"
	"weathertag/internal/photos"
	"weathertag/internal/services"
	"weathertag/internal/tagger"
	"weathertag/internal/weatherlog"
)

// ErrLocked is returned when another write run holds the lock.
var ErrLocked = errors.New("another weathertag write run is in progress")

// Request describes one run.
type Request struct {
	LogPath   string
	PhotoDir  string
	Match     tagger.Options
	Discovery photos.Options
}

// Report is the outcome of a run.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	LogStats   weatherlog.Stats
	Items      []tagger.Item
	Summary    tagger.Summary
	HistoryErr error
}

// Runner executes match runs.
type Runner struct {
	reader   tagger.TimestampReader
	writer   tagger.MetadataWriter
	store    *history.Store
	lockPath string
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithHistory records every run in store.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLockPath sets the lock file write runs acquire.
func WithLockPath(path string) Option {
	return func(r *Runner) {
		r.lockPath = path
	}
}

// WithClock overrides the wall clock (primarily for tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Runner.
func New(reader tagger.TimestampReader, writer tagger.MetadataWriter, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		reader: reader,
		writer: writer,
		logger: logging.NewComponentLogger(logger, "matchrun"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes req. onItem, when set, sees each photo as soon as it is done.
// A cancelled context stops the run between photos; the partial run is still
// recorded and the context error returned alongside the report.
func (r *Runner) Run(ctx context.Context, req Request, onItem func(tagger.Item)) (Report, error) {
	report := Report{RunID: uuid.NewString(), StartedAt: r.now()}
	ctx = services.WithRunID(ctx, report.RunID)
	logger := logging.WithContext(ctx, r.logger)

	if req.Match.Write && r.lockPath != "" {
		lock := flock.New(r.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return report, fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			return report, ErrLocked
		}
		defer func() {
			if err := lock.Unlock(); err != nil {
				logger.Warn("failed to release run lock", logging.Error(err))
			}
		}()
	}

	series, stats, err := weatherlog.Load(ctx, req.LogPath, logger)
	report.LogStats = stats
	if err != nil {
		return report, err
	}

	paths, err := photos.Discover(req.PhotoDir, req.Discovery, logger)
	if err != nil {
		return report, services.Wrap(services.ErrValidation, "matchrun", "discover photos", req.PhotoDir, err)
	}
	logger.Info("match run starting",
		logging.String("log", req.LogPath),
		logging.Int("readings", series.Len()),
		logging.String("photo_dir", req.PhotoDir),
		logging.Int("photos", len(paths)),
		logging.Float64("threshold_minutes", req.Match.ThresholdMinutes),
		logging.Bool("write", req.Match.Write),
	)

	tg := tagger.New(r.reader, r.writer, req.Match, logger)
	summary, runErr := tg.Run(ctx, paths, series, func(item tagger.Item) {
		report.Items = append(report.Items, item)
		if onItem != nil {
			onItem(item)
		}
	})
	report.Summary = summary
	report.FinishedAt = r.now()

	if r.store != nil {
		// Detached so an interrupted run is still recorded.
		recordCtx := context.WithoutCancel(ctx)
		if err := r.store.RecordRun(recordCtx, r.historyRun(req, report, stats, runErr != nil), historyEntries(report.Items)); err != nil {
			report.HistoryErr = err
			logging.WarnWithContext(logger, "failed to record run history", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run not listed in history"),
			)
		}
	}
	return report, runErr
}

func (r *Runner) historyRun(req Request, report Report, stats weatherlog.Stats, interrupted bool) history.Run {
	return history.Run{
		ID:               report.RunID,
		StartedAt:        report.StartedAt,
		FinishedAt:       report.FinishedAt,
		LogPath:          req.LogPath,
		PhotoDir:         req.PhotoDir,
		ThresholdMinutes: req.Match.ThresholdMinutes,
		Write:            req.Match.Write,
		Readings:         stats.Readings,
		Total:            report.Summary.Total,
		Matched:          report.Summary.Matched,
		NoTimestamp:      report.Summary.NoTimestamp,
		NoReading:        report.Summary.NoReading,
		Written:          report.Summary.Written,
		WriteFailed:      report.Summary.WriteFailed,
		Interrupted:      interrupted,
	}
}

func historyEntries(items []tagger.Item) []history.Entry {
	entries := make([]history.Entry, 0, len(items))
	for _, item := range items {
		entry := history.Entry{
			Photo:   item.Name,
			Status:  item.Result.Status.String(),
			Written: item.Written,
		}
		if item.HasCaptureTime() {
			entry.CaptureTime = item.CaptureTime
		}
		if !math.IsInf(item.Result.DeltaMinutes, 0) && item.Result.Nearest != nil {
			delta := item.Result.DeltaMinutes
			entry.DeltaMinutes = &delta
		}
		if nearest := item.Result.Nearest; nearest != nil {
			entry.ReadingTime = nearest.Timestamp
			entry.Temperature = nearest.Temperature
			entry.Humidity = nearest.Humidity
			entry.Pressure = nearest.Pressure
		}
		switch {
		case item.WriteErr != nil:
			entry.Error = item.WriteErr.Error()
		case item.ReadErr != nil:
			entry.Error = item.ReadErr.Error()
		}
		entries = append(entries, entry)
	}
	return entries
}
