package app

import (
	"github.com/llehouerou/tartil/internal/playback"
	"github.com/llehouerou/tartil/internal/segment"
	"github.com/llehouerou/tartil/internal/ui/repeatform"
)

// defaultConfig plays the whole chapter once.
func defaultConfig(verseCount int) playback.Config {
	return playback.Config{RepeatFrom: 1, RepeatTo: max(verseCount, 1), RepeatCount: 1}
}

// setFrom starts the range at v, extending the end when needed.
func setFrom(cfg playback.Config, v int) playback.Config {
	cfg.RepeatFrom = v
	if cfg.RepeatTo < v {
		cfg.RepeatTo = v
	}
	return cfg
}

// setTo ends the range at v, pulling the start back when needed.
func setTo(cfg playback.Config, v int) playback.Config {
	cfg.RepeatTo = v
	if cfg.RepeatFrom == 0 || cfg.RepeatFrom > v {
		cfg.RepeatFrom = v
	}
	return cfg
}

// adjustCount changes the number of plays, clamped to [1, MaxRepeatCount].
func adjustCount(cfg playback.Config, delta int) playback.Config {
	cfg.RepeatCount = max(1, min(max(cfg.RepeatCount, 1)+delta, repeatform.MaxRepeatCount))
	return cfg
}

// toggleTimeRange flips time-range mode. Turning it on without usable
// bounds seeds them from the verse range.
func toggleTimeRange(cfg playback.Config, ix segment.Index) playback.Config {
	cfg.UseTimeRange = !cfg.UseTimeRange
	if !cfg.UseTimeRange {
		return cfg
	}
	if _, ok := cfg.TimeRange(); ok {
		return cfg
	}
	if b, ok := ix.RangeBounds(cfg.RepeatFrom, cfg.RepeatTo); ok {
		start, end := b.Start, b.End
		cfg.RangeStart, cfg.RangeEnd = &start, &end
	}
	return cfg
}
