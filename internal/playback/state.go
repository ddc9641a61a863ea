// internal/playback/state.go
package playback

// Mode represents the controller's playback mode.
//
//	┌──────┐ play ┌─────────┐ pause ┌────────┐
//	│ Idle │─────▶│ Playing │◀─────▶│ Paused │
//	└──────┘      └─────────┘resume └────────┘
//	                   │ stop            │ stop
//	                   ▼                 ▼
//	              ┌───────────────────────┐
//	              │        Stopped        │
//	              └───────────────────────┘
//
// There is no separate Ended mode: reaching the end of the configured range
// is handled by the repeat policy.
type Mode int

const (
	ModeIdle Mode = iota
	ModePlaying
	ModePaused
	ModeStopped
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModePlaying:
		return "Playing"
	case ModePaused:
		return "Paused"
	case ModeStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// IsActive returns true if the transport is playing or holding a position.
func (m Mode) IsActive() bool {
	return m == ModePlaying || m == ModePaused
}
