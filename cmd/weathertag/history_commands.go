package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"weathertag/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect earlier match runs",
	}
	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))
	return historyCmd
}

func withHistory(ctx *commandContext, fn func(*history.Store) error) error {
	store, err := ctx.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatInstant(ts time.Time) string {
	if ts.IsZero() {
		return placeholder
	}
	return ts.Local().Format(timestampLayout)
}

type runJSON struct {
	ID               string  `json:"id"`
	StartedAt        string  `json:"started_at"`
	FinishedAt       string  `json:"finished_at,omitempty"`
	LogPath          string  `json:"log_path"`
	PhotoDir         string  `json:"photo_dir"`
	ThresholdMinutes float64 `json:"threshold_minutes"`
	Write            bool    `json:"write"`
	Readings         int     `json:"readings"`
	Total            int     `json:"total"`
	Matched          int     `json:"matched"`
	NoTimestamp      int     `json:"no_timestamp"`
	NoReading        int     `json:"no_reading"`
	Written          int     `json:"written"`
	WriteFailed      int     `json:"write_failed"`
	Interrupted      bool    `json:"interrupted"`
}

func toRunJSON(run history.Run) runJSON {
	out := runJSON{
		ID:               run.ID,
		StartedAt:        run.StartedAt.UTC().Format(time.RFC3339),
		LogPath:          run.LogPath,
		PhotoDir:         run.PhotoDir,
		ThresholdMinutes: run.ThresholdMinutes,
		Write:            run.Write,
		Readings:         run.Readings,
		Total:            run.Total,
		Matched:          run.Matched,
		NoTimestamp:      run.NoTimestamp,
		NoReading:        run.NoReading,
		Written:          run.Written,
		WriteFailed:      run.WriteFailed,
		Interrupted:      run.Interrupted,
	}
	if !run.FinishedAt.IsZero() {
		out.FinishedAt = run.FinishedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOut {
					payload := make([]runJSON, 0, len(runs))
					for _, run := range runs {
						payload = append(payload, toRunJSON(run))
					}
					return writeJSON(cmd, payload)
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					mode := "preview"
					if run.Write {
						mode = "write"
					}
					if run.Interrupted {
						mode += " (interrupted)"
					}
					rows = append(rows, []string{
						shortID(run.ID),
						formatInstant(run.StartedAt),
						mode,
						strconv.Itoa(run.Total),
						strconv.Itoa(run.Matched),
						strconv.Itoa(run.Written),
						run.PhotoDir,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Started", "Mode", "Photos", "Matched", "Written", "Photo dir"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the per-photo results of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(ctx, func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				entries, err := store.Entries(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				if jsonOut {
					type entryJSON struct {
						Photo        string   `json:"photo"`
						CaptureTime  string   `json:"capture_time,omitempty"`
						Status       string   `json:"status"`
						DeltaMinutes *float64 `json:"delta_minutes"`
						ReadingTime  string   `json:"reading_time,omitempty"`
						Temperature  *float64 `json:"temperature"`
						Humidity     *float64 `json:"humidity"`
						Pressure     *float64 `json:"pressure"`
						Written      bool     `json:"written"`
						Error        string   `json:"error,omitempty"`
					}
					payload := struct {
						Run     runJSON     `json:"run"`
						Entries []entryJSON `json:"entries"`
					}{Run: toRunJSON(run), Entries: make([]entryJSON, 0, len(entries))}
					for _, e := range entries {
						item := entryJSON{
							Photo:        e.Photo,
							Status:       e.Status,
							DeltaMinutes: e.DeltaMinutes,
							Temperature:  valuePtr(e.Temperature),
							Humidity:     valuePtr(e.Humidity),
							Pressure:     valuePtr(e.Pressure),
							Written:      e.Written,
							Error:        e.Error,
						}
						if !e.CaptureTime.IsZero() {
							item.CaptureTime = formatNaive(e.CaptureTime)
						}
						if !e.ReadingTime.IsZero() {
							item.ReadingTime = formatNaive(e.ReadingTime)
						}
						payload.Entries = append(payload.Entries, item)
					}
					return writeJSON(cmd, payload)
				}

				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				fmt.Fprintf(out, "Run %s\n", run.ID)
				fmt.Fprintf(out, "Started: %s  Duration: %s\n", formatInstant(run.StartedAt), run.Duration().Round(time.Millisecond))
				fmt.Fprintf(out, "Log: %s (%d readings)\n", run.LogPath, run.Readings)
				fmt.Fprintf(out, "Photos: %s  Threshold: %s min  Write: %s\n",
					run.PhotoDir, strconv.FormatFloat(run.ThresholdMinutes, 'f', -1, 64), yesNo(run.Write))
				if run.Interrupted {
					fmt.Fprintln(out, "Interrupted before all photos were processed")
				}

				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					row := []string{
						e.Photo,
						formatNaive(e.CaptureTime),
						colorizeText(e.Status, historyStatusKind(e.Status), colorize),
						formatDeltaPtr(e.DeltaMinutes),
						placeholder,
						placeholder,
						placeholder,
						yesNo(e.Written),
					}
					if historyStatusKind(e.Status) == statusOK {
						row[4] = formatValue(e.Temperature)
						row[5] = formatValue(e.Humidity)
						row[6] = formatValue(e.Pressure)
					}
					rows = append(rows, row)
				}
				if len(rows) > 0 {
					fmt.Fprintln(out, renderTable(matchHeaders, rows, matchAligns))
				}
				fmt.Fprintf(out, "Matched: %d  No timestamp: %d  No reading: %d  Written: %d  Write failed: %d\n",
					run.Matched, run.NoTimestamp, run.NoReading, run.Written, run.WriteFailed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep must be >= 0, got %d", keep)
			}
			return withHistory(ctx, func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "Number of recent runs to keep")
	return cmd
}
