package playback

import (
	"time"

	"github.com/llehouerou/tartil/internal/segment"
)

type action int

const (
	actionNone action = iota
	actionLoop
	actionSnap
)

// repeatState is the input of one policy evaluation.
type repeatState struct {
	time       float64
	window     segment.Bounds
	loops      int
	count      int
	sinceLoop  time.Duration
	everLooped bool
}

// decide applies the repeat rules to one tick. Once loops reaches count-1
// the budget is spent and the policy stays out of the way.
func decide(s repeatState, tn Tuning) action {
	if s.loops >= s.count-1 {
		return actionNone
	}
	debounced := s.everLooped && s.sinceLoop <= tn.LoopDebounce
	if s.time > s.window.End-tn.EndTolerance && !debounced {
		return actionLoop
	}
	if s.time < s.window.Start {
		return actionSnap
	}
	return actionNone
}

// repeatWindowLocked resolves the window to repeat. A valid time range has
// priority; otherwise the verse range is used.
func (c *Controller) repeatWindowLocked() (window segment.Bounds, verseMode, ok bool) {
	if tr, ok := c.cfg.TimeRange(); ok {
		return tr, false, true
	}
	b, ok := c.index.RangeBounds(c.cfg.RepeatFrom, c.cfg.RepeatTo)
	return b, true, ok
}

// applyRepeatLocked runs the repeat policy for the tick at t. Unresolvable
// boundaries make it a no-op for this tick.
func (c *Controller) applyRepeatLocked(t float64) {
	window, verseMode, ok := c.repeatWindowLocked()
	if !ok {
		return
	}

	now := c.now()
	st := repeatState{
		time:       t,
		window:     window,
		loops:      c.loops,
		count:      c.cfg.count(),
		sinceLoop:  now.Sub(c.lastLoopAt),
		everLooped: !c.lastLoopAt.IsZero(),
	}

	switch decide(st, c.tuning) {
	case actionLoop:
		target := window.Start + c.tuning.Epsilon
		c.withTransport("loop", func(tr Transport) {
			c.loops++
			c.lastLoopAt = now
			tr.SeekTo(secondsToDuration(target))
			c.current = target
			if verseMode {
				c.setActiveLocked(c.cfg.RepeatFrom)
			}
			c.emitLoop(LoopEvent{
				Completed: c.loops,
				Target:    target,
				VerseMode: verseMode,
				At:        now,
			})
		})
	case actionSnap:
		target := window.Start + c.tuning.Epsilon
		c.withTransport("snap to range", func(tr Transport) {
			tr.SeekTo(secondsToDuration(target))
			c.current = target
		})
	case actionNone:
	}
}
