package playback

import "time"

// ModeChange is emitted when the playback mode changes.
type ModeChange struct {
	Previous Mode
	Current  Mode
}

// VerseChange is emitted when the highlighted verse changes.
// Verse is 0 when no verse is active.
type VerseChange struct {
	Previous int
	Current  int
}

// LoopEvent is emitted when the repeat policy jumps back to the range start.
type LoopEvent struct {
	Completed int     // loops completed including this one
	Target    float64 // seek target in seconds
	VerseMode bool    // false when a literal time range was looped
	At        time.Time
}
