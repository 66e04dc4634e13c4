package settings

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/lmorel/chorus/internal/db"
)

const (
	appName    = "chorus"
	dbFileName = "chorus.db"
)

// SQLiteStore is the durable settings backend.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (or creates) the settings database under the XDG data dir.
func Open() (*SQLiteStore, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens a settings database at an explicit path. Used by tests
// with ":memory:".
func OpenPath(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Load reads the full settings snapshot, applying defaults for anything
// never saved.
func (s *SQLiteStore) Load() (Settings, error) {
	out := Defaults()

	row := s.db.QueryRow(`SELECT play_mode, volume, quality FROM session_settings WHERE id = 1`)
	err := row.Scan(&out.PlayMode, &out.Volume, &out.Quality)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Settings{}, err
	}

	rows, err := s.db.Query(`SELECT provider_id, current_index, current_track_id FROM provider_queues`)
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var providerID string
		var q QueueSnapshot
		var currentID sql.NullString
		if err := rows.Scan(&providerID, &q.CurrentIndex, &currentID); err != nil {
			return Settings{}, err
		}
		q.CurrentID = dbutil.NullStringValue(currentID)
		out.ProviderQueues[providerID] = q
	}
	if err := rows.Err(); err != nil {
		return Settings{}, err
	}

	for providerID, q := range out.ProviderQueues {
		tracks, err := s.loadTracks(providerID)
		if err != nil {
			return Settings{}, err
		}
		q.Tracks = tracks
		out.ProviderQueues[providerID] = q
	}

	return out.Normalize(), nil
}

func (s *SQLiteStore) loadTracks(providerID string) ([]TrackRecord, error) {
	rows, err := s.db.Query(`
		SELECT track_id, title, artist, album, album_id, cover, duration
		FROM provider_queue_tracks
		WHERE provider_id = ?
		ORDER BY position
	`, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []TrackRecord
	for rows.Next() {
		var t TrackRecord
		var artist, album, albumID, cover sql.NullString
		var duration sql.NullInt64
		if err := rows.Scan(&t.ID, &t.Title, &artist, &album, &albumID, &cover, &duration); err != nil {
			return nil, err
		}
		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.AlbumID = dbutil.NullStringValue(albumID)
		t.Cover = dbutil.NullStringValue(cover)
		t.Duration = dbutil.NullInt64Value(duration)
		t.Provider = providerID
		tracks = append(tracks, t)
	}
	return tracks, rows.Err()
}

// Save writes the full settings snapshot. Each provider queue replaces the
// previously stored one; providers absent from the snapshot are left
// untouched so one session cannot wipe another provider's saved queue.
func (s *SQLiteStore) Save(settings Settings) error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO session_settings (id, play_mode, volume, quality)
			VALUES (1, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				play_mode = excluded.play_mode,
				volume = excluded.volume,
				quality = excluded.quality
		`, settings.PlayMode, settings.Volume, settings.Quality)
		if err != nil {
			return err
		}

		for providerID, q := range settings.ProviderQueues {
			if err := saveQueue(tx, providerID, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveQueue(tx *sql.Tx, providerID string, q QueueSnapshot) error {
	var currentID any
	if q.CurrentID != "" {
		currentID = q.CurrentID
	}
	_, err := tx.Exec(`
		INSERT INTO provider_queues (provider_id, current_index, current_track_id)
		VALUES (?, ?, ?)
		ON CONFLICT(provider_id) DO UPDATE SET
			current_index = excluded.current_index,
			current_track_id = excluded.current_track_id
	`, providerID, q.CurrentIndex, currentID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM provider_queue_tracks WHERE provider_id = ?`, providerID); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO provider_queue_tracks
			(provider_id, position, track_id, title, artist, album, album_id, cover, duration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, t := range q.Tracks {
		_, err := stmt.Exec(providerID, i, t.ID, t.Title, t.Artist, t.Album, t.AlbumID, t.Cover, t.Duration)
		if err != nil {
			return err
		}
	}
	return nil
}

// Clear wipes every persisted setting. Used on full data-clear.
func (s *SQLiteStore) Clear() error {
	return dbutil.WithTx(s.db, func(tx *sql.Tx) error {
		for _, stmt := range []string{
			`DELETE FROM provider_queue_tracks`,
			`DELETE FROM provider_queues`,
			`DELETE FROM session_settings`,
		} {
			if _, err := tx.Exec(stmt); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Verify SQLiteStore implements Store at compile time.
var _ Store = (*SQLiteStore)(nil)
