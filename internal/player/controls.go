package player

import (
	"time"

	"github.com/gopxl/beep/v2/speaker"
)

// seekMuteDelay is how long output stays silent after a seek to let the
// speaker buffer drain.
const seekMuteDelay = 100 * time.Millisecond

// Play starts or resumes playback of the loaded source.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case Unloaded:
		return ErrNotLoaded
	case Playing:
		return nil
	case Paused:
	}
	speaker.Lock()
	p.ctrl.Paused = false
	speaker.Unlock()
	p.state = Playing
	return nil
}

// Pause pauses playback, keeping the position.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.state.CanPause() || p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	p.state = Paused
}

// Position returns the current playback position.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	streamer, format := p.streamer, p.format
	p.mu.Unlock()
	if streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := format.SampleRate.D(streamer.Position())
	speaker.Unlock()
	return pos
}

// SeekTo moves playback to an absolute position, clamped to the stream.
// Non-blocking: only the most recent pending request is kept.
func (p *Player) SeekTo(position time.Duration) {
	if p.State() == Unloaded {
		return
	}
	sendLatest(p.seekChan, position)
}

// sendLatest replaces any pending value in a one-slot channel with v.
func sendLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- v:
	default:
	}
}

// seekLoop processes seek requests sequentially until Close.
func (p *Player) seekLoop() {
	for {
		select {
		case <-p.quit:
			return
		case target := <-p.seekChan:
			p.doSeek(target)
		}
	}
}

func (p *Player) doSeek(target time.Duration) {
	p.mu.Lock()
	streamer, volume, format := p.streamer, p.volume, p.format
	muted := p.muted
	p.mu.Unlock()
	if streamer == nil || volume == nil {
		return
	}

	speaker.Lock()
	n := clampSample(format.SampleRate.N(target), streamer.Len())
	volume.Silent = true
	_ = streamer.Seek(n)
	speaker.Unlock()

	time.Sleep(seekMuteDelay)

	p.mu.Lock()
	stillLoaded := p.volume == volume
	p.mu.Unlock()
	if !stillLoaded {
		return
	}
	speaker.Lock()
	volume.Silent = muted
	speaker.Unlock()
}

// clampSample keeps a seek target inside [0, length-1].
func clampSample(n, length int) int {
	if length <= 0 {
		return 0
	}
	return min(max(n, 0), length-1)
}
