package cache

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// SQLite is a Cache backed by the cache_entries table of the store database.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite wraps db, which must already carry the cache_entries table.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db, now: time.Now}
}

// WithClock overrides the clock used for expiry.
func (c *SQLite) WithClock(now func() time.Time) *SQLite {
	c.now = now
	return c
}

func (c *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var expiresAt int64
	err := c.db.QueryRowContext(ctx, `
		SELECT value, expires_at FROM cache_entries WHERE key = ?
	`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.now().UnixMilli() >= expiresAt {
		return nil, false, nil
	}
	return value, true, nil
}

func (c *SQLite) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, c.now().Add(ttl).UnixMilli())
	return err
}

func (c *SQLite) Invalidate(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	return err
}

func (c *SQLite) InvalidatePrefix(ctx context.Context, prefix string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE key LIKE ? ESCAPE '\'
	`, escapeLike(prefix)+"%")
	return err
}

// Purge deletes expired entries and returns how many were removed.
func (c *SQLite) Purge(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM cache_entries WHERE expires_at <= ?
	`, c.now().UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ Cache = (*SQLite)(nil)
