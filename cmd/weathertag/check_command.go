package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"weathertag/internal/config"
	"weathertag/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var logArg, dirArg string
	var write bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify exiftool, directories and inputs before a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logPath, err := expandOptional(logArg)
			if err != nil {
				return err
			}
			photoDir, err := expandOptional(dirArg)
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, logPath, photoDir, write)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
				}
				fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Config", statusInfo, configDetail(ctx), colorize))
			fmt.Fprintln(out, renderStatusLine("History", statusInfo, historyDetail(cfg), colorize))

			if failed := preflight.Failed(results); len(failed) > 0 {
				names := make([]string, 0, len(failed))
				for _, r := range failed {
					names = append(names, r.Name)
				}
				return fmt.Errorf("preflight failed: %s", strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logArg, "log", "", "Measurement log to check")
	cmd.Flags().StringVar(&dirArg, "dir", "", "Photo directory to check")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Require write access to the photo directory")
	return cmd
}

func expandOptional(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return expanded, nil
}

func configDetail(ctx *commandContext) string {
	if ctx.configSeen {
		return ctx.configPath
	}
	return ctx.configPath + " (not found, using defaults)"
}

func historyDetail(cfg *config.Config) string {
	if !cfg.History.Enabled {
		return "disabled"
	}
	return cfg.HistoryPath()
}
