// Package playback drives a single audio transport through the verse
// segments of a chapter recording, tracking the active verse and repeating
// a verse range or a literal time range.
package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/llehouerou/tartil/internal/segment"
)

// Snapshot is a point-in-time view of the playback session.
type Snapshot struct {
	Mode           Mode
	Current        float64 // seconds
	Duration       float64 // seconds
	ActiveVerse    int     // 0 when no verse is active
	LoopsCompleted int
	LastLoopAt     time.Time
	HasSession     bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock used for loop debouncing.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLogger sets the logger used for ignored operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithTuning overrides the repeat policy constants.
func WithTuning(t Tuning) Option {
	return func(c *Controller) {
		c.tuning = t.withDefaults()
	}
}

// Controller owns one playback session. Transport commands are
// fire-and-forget; all later state changes are driven by OnTimeProgress
// and OnMetadataLoaded.
type Controller struct {
	mu sync.Mutex

	session session
	index   segment.Index
	cfg     Config
	tuning  Tuning
	now     func() time.Time
	log     *slog.Logger

	mode        Mode
	current     float64
	duration    float64
	activeVerse int
	loops       int
	lastLoopAt  time.Time

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// New creates a controller with no transport attached.
func New(opts ...Option) *Controller {
	c := &Controller{
		session: noSession{},
		tuning:  DefaultTuning(),
		now:     time.Now,
		log:     slog.Default(),
		cfg:     Config{RepeatFrom: 1, RepeatTo: 1, RepeatCount: 1},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Attach binds a transport whose audio metadata has loaded and starts a
// fresh session.
func (c *Controller) Attach(t Transport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if t == nil {
		c.session = noSession{}
		return
	}
	c.session = activeSession{transport: t}
	c.current = 0
	c.duration = t.Duration().Seconds()
	c.loops = 0
	c.lastLoopAt = time.Time{}
	c.setModeLocked(ModeIdle)
}

// Detach pauses and releases the transport.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked()
}

func (c *Controller) detachLocked() {
	if s, ok := c.session.(activeSession); ok {
		s.transport.Pause()
	}
	c.session = noSession{}
	c.setModeLocked(ModeIdle)
}

// SetSegments replaces the verse timing data.
func (c *Controller) SetSegments(segments []segment.Segment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = segment.NewIndex(segments)
}

// SetConfig replaces the repeat configuration. It takes effect on the next
// tick.
func (c *Controller) SetConfig(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
}

// Config returns the current repeat configuration.
func (c *Controller) Config() Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

// Tuning returns the active policy constants.
func (c *Controller) Tuning() Tuning {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tuning
}

// Mode returns the current playback mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// ActiveVerse returns the highlighted verse, or 0.
func (c *Controller) ActiveVerse() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeVerse
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, has := c.session.(activeSession)
	return Snapshot{
		Mode:           c.mode,
		Current:        c.current,
		Duration:       c.duration,
		ActiveVerse:    c.activeVerse,
		LoopsCompleted: c.loops,
		LastLoopAt:     c.lastLoopAt,
		HasSession:     has,
	}
}

// PlayFromRange seeks to the start of the configured range and plays.
// The start is the time range start when that mode is valid, otherwise the
// start of RepeatFrom, otherwise 0. It returns the resolved start.
func (c *Controller) PlayFromRange() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playFromRangeLocked()
}

func (c *Controller) playFromRangeLocked() float64 {
	start := c.rangeStartLocked()
	c.withTransport("play from range", func(t Transport) {
		target := start + c.tuning.Epsilon
		t.SeekTo(secondsToDuration(target))
		c.current = target
		c.loops = 0
		c.lastLoopAt = time.Time{}
		if c.index.Len() > 0 && c.cfg.RepeatFrom > 0 {
			c.setActiveLocked(c.cfg.RepeatFrom)
		}
		if err := t.Play(); err != nil {
			c.log.Warn("transport play failed", "err", err)
			return
		}
		c.setModeLocked(ModePlaying)
	})
	return start
}

func (c *Controller) rangeStartLocked() float64 {
	if tr, ok := c.cfg.TimeRange(); ok {
		return tr.Start
	}
	if b, ok := c.index.Bounds(c.cfg.RepeatFrom); ok {
		return b.Start
	}
	return 0
}

// TogglePlayPause pauses when playing and resumes otherwise. A session
// that has never played starts from the configured range.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.mode {
	case ModePlaying:
		c.pauseLocked()
	case ModeIdle:
		c.playFromRangeLocked()
	case ModePaused, ModeStopped:
		c.resumeLocked()
	}
}

func (c *Controller) resumeLocked() {
	c.withTransport("resume", func(t Transport) {
		if tr, ok := c.cfg.TimeRange(); ok {
			pos := t.Position().Seconds()
			if pos < tr.Start-c.tuning.ResumeTolerance {
				target := tr.Start + c.tuning.Epsilon
				t.SeekTo(secondsToDuration(target))
				c.current = target
			}
		}
		if err := t.Play(); err != nil {
			c.log.Warn("transport resume failed", "err", err)
			return
		}
		c.setModeLocked(ModePlaying)
	})
}

// Pause pauses the transport.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

func (c *Controller) pauseLocked() {
	c.withTransport("pause", func(t Transport) {
		t.Pause()
		c.setModeLocked(ModePaused)
	})
}

// Stop pauses the transport, rewinds to 0 and highlights RepeatFrom.
// The session always ends up Stopped at position 0.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.withTransport("stop", func(t Transport) {
		t.Pause()
		t.SeekTo(0)
	})
	c.current = 0
	if c.cfg.RepeatFrom > 0 {
		c.setActiveLocked(c.cfg.RepeatFrom)
	}
	c.setModeLocked(ModeStopped)
}

// OnTimeProgress handles a transport time update.
func (c *Controller) OnTimeProgress(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = seconds
	if v, ok := c.index.ActiveVerse(seconds); ok && v != c.activeVerse {
		c.setActiveLocked(v)
	}
	c.applyRepeatLocked(seconds)
}

// OnMetadataLoaded records the audio duration.
func (c *Controller) OnMetadataLoaded(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duration = seconds
}

// SetHidden pauses playback when the host view becomes hidden.
func (c *Controller) SetHidden(hidden bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hidden && c.mode == ModePlaying {
		c.pauseLocked()
	}
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.closed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Close tears the session down: the transport is paused so no audio is
// left playing, and subscribers are released.
func (c *Controller) Close() error {
	c.mu.Lock()
	c.detachLocked()
	c.mu.Unlock()

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	return nil
}

// withTransport runs fn against the active transport, or logs and does
// nothing when no audio is loaded.
func (c *Controller) withTransport(op string, fn func(Transport)) bool {
	switch s := c.session.(type) {
	case activeSession:
		fn(s.transport)
		return true
	default:
		c.log.Debug("no audio session, ignoring", "op", op)
		return false
	}
}

func (c *Controller) setModeLocked(m Mode) {
	if c.mode == m {
		return
	}
	e := ModeChange{Previous: c.mode, Current: m}
	c.mode = m
	c.subsMu.RLock()
	for _, sub := range c.subs {
		sub.sendMode(e)
	}
	c.subsMu.RUnlock()
}

func (c *Controller) setActiveLocked(v int) {
	if c.activeVerse == v {
		return
	}
	e := VerseChange{Previous: c.activeVerse, Current: v}
	c.activeVerse = v
	c.subsMu.RLock()
	for _, sub := range c.subs {
		sub.sendVerse(e)
	}
	c.subsMu.RUnlock()
}

func (c *Controller) emitLoop(e LoopEvent) {
	c.subsMu.RLock()
	for _, sub := range c.subs {
		sub.sendLoop(e)
	}
	c.subsMu.RUnlock()
}
