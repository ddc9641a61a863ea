package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	ModeChanged  <-chan ModeChange
	VerseChanged <-chan VerseChange
	Looped       <-chan LoopEvent
	Done         <-chan struct{}

	// Internal write channels
	modeCh  chan ModeChange
	verseCh chan VerseChange
	loopCh  chan LoopEvent
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		modeCh:  make(chan ModeChange, eventBufferSize),
		verseCh: make(chan VerseChange, eventBufferSize),
		loopCh:  make(chan LoopEvent, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.ModeChanged = s.modeCh
	s.VerseChanged = s.verseCh
	s.Looped = s.loopCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendMode sends a mode change event (non-blocking).
func (s *Subscription) sendMode(e ModeChange) {
	select {
	case s.modeCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendVerse sends a verse change event (non-blocking).
func (s *Subscription) sendVerse(e VerseChange) {
	select {
	case s.verseCh <- e:
	default:
	}
}

// sendLoop sends a loop event (non-blocking).
func (s *Subscription) sendLoop(e LoopEvent) {
	select {
	case s.loopCh <- e:
	default:
	}
}
