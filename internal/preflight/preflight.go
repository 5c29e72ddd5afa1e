package preflight

import (
	"context"
	"strings"

	"weathertag/internal/config"
	"weathertag/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes the checks relevant to a run. Empty logPath or photoDir
// skip their checks; write additionally requires the photo directory to be
// writable.
func RunAll(ctx context.Context, cfg *config.Config, logPath, photoDir string, write bool) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{ExiftoolResult(CheckSystemDeps(ctx, cfg))}
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))

	if strings.TrimSpace(logPath) != "" {
		results = append(results, CheckLogFile(logPath))
	}
	if strings.TrimSpace(photoDir) != "" {
		results = append(results, CheckPhotoDirectory(photoDir, write))
	}
	return results
}

// CheckSystemDeps evaluates the external binaries for the given config.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) deps.Status {
	return deps.CheckExiftool(ctx, cfg.Exiftool.Binary)
}

// ExiftoolResult folds a dependency status into a preflight result.
func ExiftoolResult(status deps.Status) Result {
	if !status.Available {
		return Result{Name: status.Name, Detail: status.Detail}
	}
	detail := status.Resolved
	if status.Version != "" {
		detail += " (version " + status.Version + ")"
	}
	return Result{Name: status.Name, Passed: true, Detail: detail}
}
