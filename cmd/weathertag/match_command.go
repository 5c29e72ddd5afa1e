package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weathertag/internal/config"
	"weathertag/internal/exiftool"
	"weathertag/internal/history"
	"weathertag/internal/logging"
	"weathertag/internal/matchrun"
	"weathertag/internal/photos"
	"weathertag/internal/tagger"
)

type matchFlags struct {
	write     bool
	threshold float64
	recursive bool
	jsonOut   bool
	noHistory bool
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var flags matchFlags

	cmd := &cobra.Command{
		Use:   "match <log-file> <photo-dir>",
		Short: "Match photos to the nearest log reading",
		Long: `Match every photo in <photo-dir> to the reading in <log-file> closest to its
capture time. Without --write the run is a preview and no file is modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runMatch(cmd, ctx, cfg, args[0], args[1], flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "Write matched readings into photo metadata")
	cmd.Flags().Float64VarP(&flags.threshold, "threshold", "t", 0, "Maximum minutes between capture time and reading (default from config)")
	cmd.Flags().BoolVarP(&flags.recursive, "recursive", "r", false, "Descend into subdirectories")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&flags.noHistory, "no-history", false, "Do not record this run in the history database")
	return cmd
}

func runMatch(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, logArg, dirArg string, flags matchFlags) error {
	logPath, err := config.ExpandPath(logArg)
	if err != nil {
		return fmt.Errorf("resolve log path: %w", err)
	}
	photoDir, err := config.ExpandPath(dirArg)
	if err != nil {
		return fmt.Errorf("resolve photo directory: %w", err)
	}

	opts := cfg.MatchOptions()
	if cmd.Flags().Changed("threshold") {
		if err := config.ValidateThreshold(flags.threshold); err != nil {
			return fmt.Errorf("--threshold %w, got %v", err, flags.threshold)
		}
		opts.ThresholdMinutes = flags.threshold
	}
	if flags.write {
		opts.Write = true
	}
	recursive := cfg.Photos.Recursive || flags.recursive

	logger := ctx.loggerValue()
	client := exiftool.New(cfg.Exiftool.Binary, cfg.ExiftoolTimeout())
	runnerOpts := []matchrun.Option{matchrun.WithLockPath(cfg.LockPath())}

	if cfg.History.Enabled && !flags.noHistory {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("run history unavailable", logging.Error(err))
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, matchrun.WithHistory(store))
		}
	}

	runner := matchrun.New(client, client, logger, runnerOpts...)
	req := matchrun.Request{
		LogPath:   logPath,
		PhotoDir:  photoDir,
		Match:     tagger.Options{ThresholdMinutes: opts.ThresholdMinutes, Write: opts.Write},
		Discovery: photos.Options{Extensions: cfg.Photos.Extensions, Recursive: recursive},
	}

	signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report, runErr := runner.Run(signalCtx, req, nil)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return runErr
	}

	if flags.jsonOut {
		if err := writeJSON(cmd, matchJSON(report, req)); err != nil {
			return err
		}
		return runErr
	}

	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	fmt.Fprintln(out, logStatsLine(report.LogStats))

	rows := make([][]string, 0, len(report.Items))
	for _, item := range report.Items {
		rows = append(rows, itemRow(item, req.Match.Write, colorize))
	}
	if len(rows) == 0 {
		fmt.Fprintf(out, "No photos found in %s\n", photoDir)
	} else {
		fmt.Fprintln(out, renderTable(matchHeaders, rows, matchAligns))
	}
	fmt.Fprintln(out, summaryLine(report.Summary, req.Match.Write))
	if !req.Match.Write && report.Summary.Matched > 0 {
		fmt.Fprintln(out, "Preview only; re-run with --write to update photo metadata.")
	}
	if report.HistoryErr == nil && cfg.History.Enabled && !flags.noHistory {
		fmt.Fprintf(out, "Run ID: %s\n", report.RunID)
	}
	if errors.Is(runErr, context.Canceled) {
		fmt.Fprintln(out, "Interrupted; remaining photos were not processed.")
	}
	return runErr
}

type matchItemJSON struct {
	Photo        string       `json:"photo"`
	Path         string       `json:"path"`
	CaptureTime  string       `json:"capture_time,omitempty"`
	Status       string       `json:"status"`
	DeltaMinutes *float64     `json:"delta_minutes"`
	Reading      *jsonReading `json:"reading"`
	Written      bool         `json:"written"`
	Error        string       `json:"error,omitempty"`
}

type matchReportJSON struct {
	RunID            string          `json:"run_id"`
	LogPath          string          `json:"log_path"`
	PhotoDir         string          `json:"photo_dir"`
	ThresholdMinutes float64         `json:"threshold_minutes"`
	Write            bool            `json:"write"`
	Log              jsonLogStats    `json:"log"`
	Items            []matchItemJSON `json:"items"`
	Summary          tagger.Summary  `json:"summary"`
}

func matchJSON(report matchrun.Report, req matchrun.Request) matchReportJSON {
	items := make([]matchItemJSON, 0, len(report.Items))
	for _, item := range report.Items {
		entry := matchItemJSON{
			Photo:        item.Name,
			Path:         item.Path,
			Status:       item.Result.Status.String(),
			DeltaMinutes: deltaPtr(item.Result.DeltaMinutes),
			Written:      item.Written,
		}
		if item.HasCaptureTime() {
			entry.CaptureTime = formatNaive(item.CaptureTime)
		}
		if item.Result.Matched() {
			reading := toJSONReading(*item.Result.Nearest)
			entry.Reading = &reading
		}
		switch {
		case item.WriteErr != nil:
			entry.Error = item.WriteErr.Error()
		case item.ReadErr != nil:
			entry.Error = item.ReadErr.Error()
		}
		items = append(items, entry)
	}
	return matchReportJSON{
		RunID:            report.RunID,
		LogPath:          req.LogPath,
		PhotoDir:         req.PhotoDir,
		ThresholdMinutes: req.Match.ThresholdMinutes,
		Write:            req.Match.Write,
		Log:              toJSONLogStats(report.LogStats),
		Items:            items,
		Summary:          report.Summary,
	}
}
