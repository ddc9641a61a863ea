package playback

import "time"

// Transport is the media primitive the controller drives.
// player.Player and player.Mock implement it.
type Transport interface {
	Play() error
	Pause()
	Position() time.Duration
	SeekTo(position time.Duration)
	Duration() time.Duration
}

// session is either noSession or activeSession. Every transport command is
// dispatched through it so that a missing audio source is a single case
// rather than a nil check per operation.
type session interface {
	isSession()
}

type noSession struct{}

type activeSession struct {
	transport Transport
}

func (noSession) isSession()     {}
func (activeSession) isSession() {}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
