package settings

import "database/sql"

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS session_settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			play_mode TEXT NOT NULL DEFAULT 'order',
			volume REAL NOT NULL DEFAULT 1.0,
			quality TEXT NOT NULL DEFAULT 'auto'
		);

		CREATE TABLE IF NOT EXISTS provider_queues (
			provider_id TEXT PRIMARY KEY,
			current_index INTEGER NOT NULL DEFAULT -1,
			current_track_id TEXT
		);

		CREATE TABLE IF NOT EXISTS provider_queue_tracks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider_id TEXT NOT NULL REFERENCES provider_queues(provider_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			track_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			album TEXT,
			album_id TEXT,
			cover TEXT,
			duration INTEGER,
			UNIQUE(provider_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_queue_tracks_provider
			ON provider_queue_tracks(provider_id, position);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
