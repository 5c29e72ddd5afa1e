package deps

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const versionProbeTimeout = 5 * time.Second

// CheckExiftool reports whether the configured exiftool binary resolves and,
// when it does, records the version it prints for -ver.
func CheckExiftool(ctx context.Context, binary string) Status {
	status := CheckBinaries([]Requirement{{
		Name:        "ExifTool",
		Command:     binary,
		Description: "Reads capture times and writes ambient readings",
	}})[0]
	if !status.Available {
		return status
	}

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	output, err := exec.CommandContext(probeCtx, status.Resolved, "-ver").Output() //nolint:gosec
	if err != nil {
		status.Available = false
		status.Detail = "version probe failed: " + err.Error()
		return status
	}
	status.Version = strings.TrimSpace(string(output))
	return status
}
