package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/tartil/internal/db"
	"github.com/llehouerou/tartil/internal/playback"
)

// PlaybackPrefs is the repeat setup last used for a chapter.
type PlaybackPrefs struct {
	Chapter      int
	Reciter      int
	RepeatFrom   int
	RepeatTo     int
	RepeatCount  int
	UseTimeRange bool
	RangeStart   *float64
	RangeEnd     *float64
	LastVerse    int
	UpdatedAt    time.Time
}

// Config returns the playback repeat configuration.
func (p PlaybackPrefs) Config() playback.Config {
	return playback.Config{
		RepeatFrom:   p.RepeatFrom,
		RepeatTo:     p.RepeatTo,
		RepeatCount:  p.RepeatCount,
		UseTimeRange: p.UseTimeRange,
		RangeStart:   p.RangeStart,
		RangeEnd:     p.RangeEnd,
	}
}

// PrefsFromConfig builds preferences for chapter from a repeat configuration.
func PrefsFromConfig(chapter, reciter int, cfg playback.Config) PlaybackPrefs {
	return PlaybackPrefs{
		Chapter:      chapter,
		Reciter:      reciter,
		RepeatFrom:   cfg.RepeatFrom,
		RepeatTo:     cfg.RepeatTo,
		RepeatCount:  cfg.RepeatCount,
		UseTimeRange: cfg.UseTimeRange,
		RangeStart:   cfg.RangeStart,
		RangeEnd:     cfg.RangeEnd,
	}
}

// GetPrefs returns the saved preferences for chapter, or nil on first use.
// A pending debounced write is returned before it reaches the database.
func (s *Store) GetPrefs(ctx context.Context, chapter int) (*PlaybackPrefs, error) {
	s.saveMu.Lock()
	if p, ok := s.pending[chapter]; ok {
		s.saveMu.Unlock()
		return &p, nil
	}
	s.saveMu.Unlock()
	return getPrefs(ctx, s.db, chapter)
}

// SavePrefs schedules a write of p. Writes within saveDebounce of each
// other are coalesced; Close flushes anything pending.
func (s *Store) SavePrefs(p PlaybackPrefs) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.pending[p.Chapter] = p

	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}

	s.saveTimer = time.AfterFunc(saveDebounce, func() {
		s.saveMu.Lock()
		pending := s.pending
		s.pending = make(map[int]PlaybackPrefs)
		s.saveMu.Unlock()

		for _, p := range pending {
			_ = savePrefs(context.Background(), s.db, p, s.now())
		}
	})
}

func getPrefs(ctx context.Context, db *sql.DB, chapter int) (*PlaybackPrefs, error) {
	row := db.QueryRowContext(ctx, `
		SELECT chapter, reciter, repeat_from, repeat_to, repeat_count, use_time_range,
		       range_start, range_end, last_verse, updated_at
		FROM playback_prefs WHERE chapter = ?
	`, chapter)

	var p PlaybackPrefs
	var start, end sql.NullFloat64
	var updated int64
	err := row.Scan(&p.Chapter, &p.Reciter, &p.RepeatFrom, &p.RepeatTo, &p.RepeatCount,
		&p.UseTimeRange, &start, &end, &p.LastVerse, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved prefs is valid on first use
	}
	if err != nil {
		return nil, err
	}

	p.RangeStart = dbutil.NullFloat64ToPtr(start)
	p.RangeEnd = dbutil.NullFloat64ToPtr(end)
	p.UpdatedAt = dbutil.FromUnixMilli(updated)
	return &p, nil
}

func savePrefs(ctx context.Context, db *sql.DB, p PlaybackPrefs, now time.Time) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO playback_prefs (chapter, reciter, repeat_from, repeat_to, repeat_count,
		                            use_time_range, range_start, range_end, last_verse, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chapter) DO UPDATE SET
			reciter = excluded.reciter,
			repeat_from = excluded.repeat_from,
			repeat_to = excluded.repeat_to,
			repeat_count = excluded.repeat_count,
			use_time_range = excluded.use_time_range,
			range_start = excluded.range_start,
			range_end = excluded.range_end,
			last_verse = excluded.last_verse,
			updated_at = excluded.updated_at
	`, p.Chapter, p.Reciter, p.RepeatFrom, p.RepeatTo, p.RepeatCount, p.UseTimeRange,
		dbutil.PtrToNullFloat64(p.RangeStart), dbutil.PtrToNullFloat64(p.RangeEnd),
		p.LastVerse, dbutil.UnixMilli(now))
	return err
}
