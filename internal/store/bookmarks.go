package store

import (
	"context"
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/tartil/internal/db"
)

type Bookmark struct {
	ID        int64
	Chapter   int
	Verse     int
	Note      string
	CreatedAt time.Time
}

// AddBookmark bookmarks a verse. Bookmarking the same verse again replaces
// its note and keeps the id.
func (s *Store) AddBookmark(ctx context.Context, chapter, verse int, note string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO bookmarks (chapter, verse, note, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(chapter, verse) DO UPDATE SET note = excluded.note
		RETURNING id
	`, chapter, verse, dbutil.NullString(note), dbutil.UnixMilli(s.now())).Scan(&id)
	return id, err
}

// DeleteBookmark removes a bookmark by id.
func (s *Store) DeleteBookmark(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBookmarks returns bookmarks in reading order.
func (s *Store) ListBookmarks(ctx context.Context) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, chapter, verse, note, created_at
		FROM bookmarks ORDER BY chapter, verse
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var b Bookmark
		var note sql.NullString
		var created int64
		if err := rows.Scan(&b.ID, &b.Chapter, &b.Verse, &note, &created); err != nil {
			return nil, err
		}
		b.Note = dbutil.NullStringValue(note)
		b.CreatedAt = dbutil.FromUnixMilli(created)
		out = append(out, b)
	}
	return out, rows.Err()
}
