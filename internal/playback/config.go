package playback

import (
	"time"

	"github.com/llehouerou/tartil/internal/segment"
)

// Config holds the user-selected repeat settings.
type Config struct {
	RepeatFrom   int // first verse of the repeated range
	RepeatTo     int // last verse of the repeated range
	RepeatCount  int // total plays of the range, >= 1
	UseTimeRange bool
	RangeStart   *float64 // seconds, used when UseTimeRange is set
	RangeEnd     *float64
}

// TimeRange returns the literal time window if time-range mode is enabled
// and both bounds are set with end > start.
func (c Config) TimeRange() (segment.Bounds, bool) {
	if !c.UseTimeRange || c.RangeStart == nil || c.RangeEnd == nil {
		return segment.Bounds{}, false
	}
	if *c.RangeEnd <= *c.RangeStart {
		return segment.Bounds{}, false
	}
	return segment.Bounds{Start: *c.RangeStart, End: *c.RangeEnd}, true
}

// count returns RepeatCount clamped to at least one play.
func (c Config) count() int {
	return max(c.RepeatCount, 1)
}

// Tuning holds the timing constants of the repeat policy.
// Zero fields are replaced by defaults.
type Tuning struct {
	// Epsilon is added to every seek target so playback does not land
	// exactly on a boundary and re-trigger it.
	Epsilon float64
	// EndTolerance triggers a loop slightly before the range end to
	// compensate for tick granularity.
	EndTolerance float64
	// ResumeTolerance is how far before a time range a paused position may
	// sit before resuming jumps back into the range.
	ResumeTolerance float64
	// LoopDebounce is the minimum time between two loop triggers.
	LoopDebounce time.Duration
}

const (
	DefaultEpsilon         = 0.01
	DefaultEndTolerance    = 0.05
	DefaultResumeTolerance = 0.05
	DefaultLoopDebounce    = 700 * time.Millisecond
)

// DefaultTuning returns the calibrated defaults.
func DefaultTuning() Tuning {
	return Tuning{
		Epsilon:         DefaultEpsilon,
		EndTolerance:    DefaultEndTolerance,
		ResumeTolerance: DefaultResumeTolerance,
		LoopDebounce:    DefaultLoopDebounce,
	}
}

func (t Tuning) withDefaults() Tuning {
	if t.Epsilon <= 0 {
		t.Epsilon = DefaultEpsilon
	}
	if t.EndTolerance <= 0 {
		t.EndTolerance = DefaultEndTolerance
	}
	if t.ResumeTolerance <= 0 {
		t.ResumeTolerance = DefaultResumeTolerance
	}
	if t.LoopDebounce <= 0 {
		t.LoopDebounce = DefaultLoopDebounce
	}
	return t
}
