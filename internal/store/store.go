// Package store persists playback preferences, bookmarks, recitation
// attempts and cached upstream responses in a single SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "tartil"
	dbFileName   = "tartil.db"
	saveDebounce = 500 * time.Millisecond
)

// ErrNotFound is returned when a row addressed by id does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db        *sql.DB
	now       func() time.Time
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   map[int]PlaybackPrefs // by chapter
}

// Open opens the database at path, or at the xdg data location when path is
// empty, creating the schema as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		p, err := getDBPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now, pending: make(map[int]PlaybackPrefs)}, nil
}

// Close flushes pending preference writes and closes the database.
func (s *Store) Close() error {
	s.saveMu.Lock()
	if s.saveTimer != nil {
		s.saveTimer.Stop()
	}
	pending := s.pending
	s.pending = make(map[int]PlaybackPrefs)
	s.saveMu.Unlock()

	for _, p := range pending {
		_ = savePrefs(context.Background(), s.db, p, s.now())
	}

	return s.db.Close()
}

// DB exposes the handle for packages that keep their own tables here.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
