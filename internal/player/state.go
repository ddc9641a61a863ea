// internal/player/state.go
package player

// State represents the transport state machine.
//
//	┌──────────┐      load       ┌──────────┐
//	│ Unloaded │ ───────────────▶│  Paused  │◀──┐
//	└──────────┘                 └──────────┘   │
//	     ▲                        play │        │ pause
//	     │ close                       ▼        │
//	     │                       ┌──────────┐   │
//	     └───────────────────────│  Playing │───┘
//	                  close      └──────────┘
//
// Load always leaves the transport paused at position 0; the caller decides
// when to play. Reaching the end of the stream leaves the state Playing with
// the position pinned at the end and Done closed.
//
// Invalid/No-op transitions (handled gracefully):
//   - Unloaded → Playing (Play returns ErrNotLoaded)
//   - Unloaded → Paused  (ignored)
//   - Paused   → Paused  (ignored)
//   - Playing  → Playing (ignored)

// State is the transport state.
type State int

const (
	Unloaded State = iota
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Unloaded:
		return "Unloaded"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsLoaded returns true if a source is open (Playing or Paused).
func (s State) IsLoaded() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanPlay returns true if the state allows starting playback.
func (s State) CanPlay() bool {
	return s == Paused
}
