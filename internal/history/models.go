package history

import (
	"errors"
	"time"

	"weathertag/internal/weatherlog"
)

var (
	// ErrRunNotFound is returned when no run matches the requested id.
	ErrRunNotFound = errors.New("run not found")
	// ErrAmbiguousRun is returned when an id prefix matches several runs.
	ErrAmbiguousRun = errors.New("run id prefix is ambiguous")
)

// Run is one recorded match invocation.
type Run struct {
	ID               string
	StartedAt        time.Time
	FinishedAt       time.Time
	LogPath          string
	PhotoDir         string
	ThresholdMinutes float64
	Write            bool
	Readings         int
	Total            int
	Matched          int
	NoTimestamp      int
	NoReading        int
	Written          int
	WriteFailed      int
	Interrupted      bool
}

// Duration returns the wall time of the run, or zero when unfinished.
func (r Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Entry is the recorded outcome for one photo. CaptureTime and ReadingTime
// are naive timestamps; the zero value means absent. DeltaMinutes is nil when
// no reading was compared.
type Entry struct {
	Photo        string
	CaptureTime  time.Time
	Status       string
	DeltaMinutes *float64
	ReadingTime  time.Time
	Temperature  weatherlog.Value
	Humidity     weatherlog.Value
	Pressure     weatherlog.Value
	Written      bool
	Error        string
}
