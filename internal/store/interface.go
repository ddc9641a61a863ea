// internal/store/interface.go
package store

import (
	"context"
)

// Interface defines the store contract for dependency injection and testing.
type Interface interface {
	GetPrefs(ctx context.Context, chapter int) (*PlaybackPrefs, error)
	SavePrefs(p PlaybackPrefs)
	AddBookmark(ctx context.Context, chapter, verse int, note string) (int64, error)
	DeleteBookmark(ctx context.Context, id int64) error
	ListBookmarks(ctx context.Context) ([]Bookmark, error)
	SaveAttempt(ctx context.Context, a Attempt) error
	ListAttempts(ctx context.Context, player string, limit int) ([]Attempt, error)
	Leaderboard(ctx context.Context, chapter, limit int) ([]LeaderboardEntry, error)
	Ping(ctx context.Context) error
	Close() error
}

// Verify Store implements Interface at compile time.
var _ Interface = (*Store)(nil)
