// Package player implements an MP3 audio transport on top of the beep speaker.
package player

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

const extMP3 = ".mp3"

// ErrNotLoaded is returned by Play when no source has been loaded.
var ErrNotLoaded = errors.New("player: no audio loaded")

// ErrClosed is returned by Load after Close.
var ErrClosed = errors.New("player: closed")

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Player plays one recitation file at a time.
type Player struct {
	mu sync.Mutex

	state    State
	source   string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	volumeLevel float64
	muted       bool

	seekChan chan time.Duration
	done     chan struct{}

	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a player with nothing loaded.
func New() *Player {
	p := &Player{
		state:       Unloaded,
		volumeLevel: 1,
		seekChan:    make(chan time.Duration, 1),
		done:        make(chan struct{}),
		quit:        make(chan struct{}),
	}
	go p.seekLoop()
	return p
}

// Load opens and decodes path, leaving the transport paused at 0.
// Any previously loaded source is released first.
func (p *Player) Load(path string) error {
	select {
	case <-p.quit:
		return ErrClosed
	default:
	}
	p.unload()

	// Small delay to let any pending Beep callback complete after speaker.Clear()
	time.Sleep(10 * time.Millisecond)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != extMP3 {
		return fmt.Errorf("unsupported format: %s", ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}

	streamer, format, err := decodeMP3(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}

	if err := initSpeaker(format.SampleRate); err != nil {
		streamer.Close()
		return err
	}

	var out beep.Streamer = streamer
	if format.SampleRate != speakerSampleRate {
		out = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	done := make(chan struct{})
	ctrl := &beep.Ctrl{Streamer: out, Paused: true}

	p.mu.Lock()
	p.streamer = streamer
	p.format = format
	p.source = path
	p.ctrl = ctrl
	p.volume = &effects.Volume{
		Streamer: ctrl,
		Base:     2,
		Volume:   levelToVolume(p.volumeLevel),
		Silent:   p.muted,
	}
	p.state = Paused
	p.done = done
	vol := p.volume
	p.mu.Unlock()

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		close(done)
	})))

	return nil
}

func initSpeaker(rate beep.SampleRate) error {
	speakerMu.Lock()
	defer speakerMu.Unlock()
	if speakerInitialized {
		return nil
	}
	if err := speaker.Init(rate, rate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speakerSampleRate = rate
	speakerInitialized = true
	return nil
}

// unload stops output and releases the current source.
func (p *Player) unload() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == Unloaded {
		return
	}

	speaker.Clear()

	if p.streamer != nil {
		p.streamer.Close()
		p.streamer = nil
	}
	p.ctrl = nil
	p.volume = nil
	p.source = ""
	p.state = Unloaded

	select {
	case <-p.done:
	default:
		close(p.done)
	}
}

// Close releases the loaded source and stops the seek loop. The player
// cannot be loaded again.
func (p *Player) Close() error {
	p.unload()
	p.closeOnce.Do(func() { close(p.quit) })
	return nil
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Source returns the loaded file path, or "".
func (p *Player) Source() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source
}

// Duration returns the length of the loaded source.
func (p *Player) Duration() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.streamer == nil {
		return 0
	}
	return p.format.SampleRate.D(p.streamer.Len())
}

// Done is closed when the loaded source has played to its end or is unloaded.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}
