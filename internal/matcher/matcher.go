package matcher

import (
	"math"
	"time"

	"weathertag/internal/weatherlog"
)

// Status classifies the outcome of a match.
type Status int

const (
	Matched Status = iota
	NoTargetTimestamp
	NoReadingWithinThreshold
)

func (s Status) String() string {
	switch s {
	case Matched:
		return "matched"
	case NoTargetTimestamp:
		return "no_timestamp"
	case NoReadingWithinThreshold:
		return "no_reading"
	default:
		return "unknown"
	}
}

// Target is an optional capture time.
type Target struct {
	at  time.Time
	set bool
}

// TargetAt returns a present target.
func TargetAt(t time.Time) Target {
	return Target{at: t, set: true}
}

// NoTarget returns an absent target, used when the capture time could not be
// read.
func NoTarget() Target {
	return Target{}
}

// Time returns the target and whether it is present.
func (t Target) Time() (time.Time, bool) {
	return t.at, t.set
}

// Result is the outcome of matching one target against a series.
type Result struct {
	// Nearest is nil when no search ran or the series was empty.
	Nearest      *weatherlog.Reading
	DeltaMinutes float64
	Status       Status
}

// Matched reports whether the result carries a reading within threshold.
func (r Result) Matched() bool {
	return r.Status == Matched && r.Nearest != nil
}

// FindMatch returns the reading nearest to target. The best candidate is only
// replaced on strict improvement, so among equally distant readings the first
// one in ascending order, which is the earliest, is kept. A threshold of zero
// accepts only an exact match.
func FindMatch(target Target, series weatherlog.Series, thresholdMinutes float64) Result {
	at, ok := target.Time()
	if !ok {
		return Result{DeltaMinutes: math.Inf(1), Status: NoTargetTimestamp}
	}

	best := -1
	bestDelta := math.Inf(1)
	for i := range series.Len() {
		delta := math.Abs(series.At(i).Timestamp.Sub(at).Minutes())
		if delta < bestDelta {
			best = i
			bestDelta = delta
		}
	}
	if best < 0 {
		return Result{DeltaMinutes: math.Inf(1), Status: NoReadingWithinThreshold}
	}

	nearest := series.At(best)
	result := Result{Nearest: &nearest, DeltaMinutes: bestDelta, Status: NoReadingWithinThreshold}
	if bestDelta <= thresholdMinutes {
		result.Status = Matched
	}
	return result
}
