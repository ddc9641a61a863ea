// internal/player/interface.go
package player

import "time"

// Interface defines the player contract for dependency injection and testing.
// It is a superset of playback.Transport.
type Interface interface {
	Load(path string) error
	Play() error
	Pause()
	SeekTo(position time.Duration)
	Position() time.Duration
	Duration() time.Duration
	State() State
	Source() string
	SetVolume(level float64)
	Volume() float64
	SetMuted(muted bool)
	Muted() bool
	Done() <-chan struct{}
	Close() error
}

// Verify Player implements Interface at compile time.
var _ Interface = (*Player)(nil)
