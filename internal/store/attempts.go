package store

import (
	"context"
	"time"

	dbutil "github.com/llehouerou/tartil/internal/db"
)

// Attempt is a scored recitation attempt.
type Attempt struct {
	ID          string
	Player      string
	Chapter     int
	From        int
	To          int
	Provider    string
	Transcript  string
	Accuracy    float64
	Correct     int
	Substituted int
	Missed      int
	Extra       int
	CreatedAt   time.Time
}

// LeaderboardEntry is a player's best attempt.
type LeaderboardEntry struct {
	Player   string
	Best     float64
	Attempts int
	LastAt   time.Time
}

func (s *Store) SaveAttempt(ctx context.Context, a Attempt) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recitation_attempts (id, player, chapter, verse_from, verse_to, provider,
		                                 transcript, accuracy, correct, substituted, missed, extra, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Player, a.Chapter, a.From, a.To, a.Provider, a.Transcript, a.Accuracy,
		a.Correct, a.Substituted, a.Missed, a.Extra, dbutil.UnixMilli(a.CreatedAt))
	return err
}

// ListAttempts returns a player's attempts, newest first.
func (s *Store) ListAttempts(ctx context.Context, player string, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, player, chapter, verse_from, verse_to, provider, transcript,
		       accuracy, correct, substituted, missed, extra, created_at
		FROM recitation_attempts
		WHERE player = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, player, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		var created int64
		if err := rows.Scan(&a.ID, &a.Player, &a.Chapter, &a.From, &a.To, &a.Provider,
			&a.Transcript, &a.Accuracy, &a.Correct, &a.Substituted, &a.Missed, &a.Extra,
			&created); err != nil {
			return nil, err
		}
		a.CreatedAt = dbutil.FromUnixMilli(created)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Leaderboard ranks players by their best accuracy. chapter 0 ranks across
// all chapters. Ties go to the player who reached the score first.
func (s *Store) Leaderboard(ctx context.Context, chapter, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT player, MAX(accuracy) AS best, COUNT(*), MAX(created_at),
		       MIN(CASE WHEN accuracy = (
		           SELECT MAX(a2.accuracy) FROM recitation_attempts a2
		           WHERE a2.player = a.player AND (? = 0 OR a2.chapter = ?)
		       ) THEN created_at END) AS best_at
		FROM recitation_attempts a
		WHERE ? = 0 OR chapter = ?
		GROUP BY player
		ORDER BY best DESC, best_at ASC
		LIMIT ?
	`, chapter, chapter, chapter, chapter, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var last, bestAt int64
		if err := rows.Scan(&e.Player, &e.Best, &e.Attempts, &last, &bestAt); err != nil {
			return nil, err
		}
		e.LastAt = dbutil.FromUnixMilli(last)
		out = append(out, e)
	}
	return out, rows.Err()
}
