package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"weathertag/internal/config"
	"weathertag/internal/weatherlog"
)

func newLogCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var limit int

	cmd := &cobra.Command{
		Use:   "log <log-file>",
		Short: "Show how a measurement log parses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return fmt.Errorf("resolve log path: %w", err)
			}
			series, stats, err := weatherlog.Load(cmd.Context(), path, ctx.loggerValue())
			if err != nil {
				return err
			}

			readings := series.Readings()
			if jsonOut {
				payload := struct {
					Path     string        `json:"path"`
					Stats    jsonLogStats  `json:"stats"`
					Readings []jsonReading `json:"readings"`
				}{Path: path, Stats: toJSONLogStats(stats), Readings: make([]jsonReading, 0, len(readings))}
				for _, r := range readings {
					payload.Readings = append(payload.Readings, toJSONReading(r))
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, logStatsLine(stats))
			if first, last, ok := series.Span(); ok {
				fmt.Fprintf(out, "Span: %s to %s\n", formatNaive(first), formatNaive(last))
			} else {
				fmt.Fprintln(out, "No readings parsed")
				return nil
			}

			shown := readings
			if limit > 0 && len(shown) > limit {
				shown = shown[:limit]
			}
			rows := make([][]string, 0, len(shown))
			for _, r := range shown {
				rows = append(rows, []string{
					formatNaive(r.Timestamp),
					formatValue(r.Temperature),
					formatValue(r.Humidity),
					formatValue(r.Pressure),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Timestamp", "Temp °C", "Humidity %", "Pressure hPa"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			if hidden := len(readings) - len(shown); hidden > 0 {
				fmt.Fprintf(out, "... %d more readings (use --limit 0 to show all)\n", hidden)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum readings to display (0 for all)")
	return cmd
}
