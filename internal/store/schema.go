package store

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS playback_prefs (
			chapter INTEGER PRIMARY KEY,
			reciter INTEGER NOT NULL DEFAULT 0,
			repeat_from INTEGER NOT NULL DEFAULT 1,
			repeat_to INTEGER NOT NULL DEFAULT 1,
			repeat_count INTEGER NOT NULL DEFAULT 1,
			use_time_range INTEGER NOT NULL DEFAULT 0,
			range_start REAL,
			range_end REAL,
			last_verse INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chapter INTEGER NOT NULL,
			verse INTEGER NOT NULL,
			note TEXT,
			created_at INTEGER NOT NULL,
			UNIQUE(chapter, verse)
		);

		CREATE TABLE IF NOT EXISTS recitation_attempts (
			id TEXT PRIMARY KEY,
			player TEXT NOT NULL,
			chapter INTEGER NOT NULL,
			verse_from INTEGER NOT NULL,
			verse_to INTEGER NOT NULL,
			provider TEXT NOT NULL,
			transcript TEXT NOT NULL,
			accuracy REAL NOT NULL,
			correct INTEGER NOT NULL,
			substituted INTEGER NOT NULL,
			missed INTEGER NOT NULL,
			extra INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_attempts_chapter ON recitation_attempts(chapter, accuracy DESC);
		CREATE INDEX IF NOT EXISTS idx_attempts_player ON recitation_attempts(player, created_at DESC);

		CREATE TABLE IF NOT EXISTS cache_entries (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expires_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_cache_expires ON cache_entries(expires_at);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
