// Package storage provides SQLite-based persistence for settings, play
// history and combat runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/chrysopoeia/internal/config"
)

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// Run is one finished combat session against a song.
type Run struct {
	ID         int64
	RunID      string // UUID, generated on save when empty
	SessionID  string
	SongID     string
	Score      int
	Hits       int
	Misses     int
	BestStreak int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Accuracy returns hits as a fraction of all judged presses.
func (r Run) Accuracy() float64 {
	total := r.Hits + r.Misses
	if total == 0 {
		return 0
	}
	return float64(r.Hits) / float64(total)
}

// SongStats contains aggregated statistics for a song.
type SongStats struct {
	SongID     string
	Plays      int
	Runs       int
	BestScore  int
	BestStreak int
	LastPlayed time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data BLOB NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS plays (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			song_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_plays_song_id ON plays(song_id);

		CREATE TABLE IF NOT EXISTS combat_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			session_id TEXT NOT NULL,
			song_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			hits INTEGER NOT NULL DEFAULT 0,
			misses INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_combat_runs_top ON combat_runs(song_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSettings stores the settings as a single YAML blob.
func (s *Store) SaveSettings(settings config.Settings) error {
	data, err := settings.Encode()
	if err != nil {
		return fmt.Errorf("storage: cannot save settings: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO settings (id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		data,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save settings: %w", err)
	}
	return nil
}

// LoadSettings returns the stored settings. ok is false when nothing has been
// saved yet.
func (s *Store) LoadSettings() (settings config.Settings, ok bool, err error) {
	var data []byte
	err = s.db.QueryRow("SELECT data FROM settings WHERE id = 1").Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return config.DefaultSettings(), false, nil
	}
	if err != nil {
		return config.DefaultSettings(), false, fmt.Errorf("storage: cannot load settings: %w", err)
	}

	settings, err = config.DecodeSettings(data)
	if err != nil {
		return settings, false, fmt.Errorf("storage: cannot load settings: %w", err)
	}
	return settings, true, nil
}

// RecordPlay records that a session started playing a song.
// Returns the ID of the inserted record.
func (s *Store) RecordPlay(sessionID, songID string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO plays (session_id, song_id) VALUES (?, ?)",
		sessionID, songID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot record play: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// SaveRun records a finished combat run and returns it with its IDs set.
func (s *Store) SaveRun(run Run) (Run, error) {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}

	result, err := s.db.Exec(
		`INSERT INTO combat_runs
		 (run_id, session_id, song_id, score, hits, misses, best_streak, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.SessionID,
		run.SongID,
		run.Score,
		run.Hits,
		run.Misses,
		run.BestStreak,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return run, fmt.Errorf("storage: cannot save run: %w", err)
	}

	run.ID, err = result.LastInsertId()
	if err != nil {
		return run, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return run, nil
}

// TopRuns retrieves the best N runs for the given song, by score descending.
func (s *Store) TopRuns(songID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, session_id, song_id, score, hits, misses, best_streak, duration_ms, created_at
		 FROM combat_runs
		 WHERE song_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		songID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMS int64
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.SessionID,
			&r.SongID,
			&r.Score,
			&r.Hits,
			&r.Misses,
			&r.BestStreak,
			&durationMS,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// SongStats retrieves aggregated statistics for a specific song.
func (s *Store) SongStats(songID string) (*SongStats, error) {
	stats := &SongStats{SongID: songID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(created_at) FROM plays WHERE song_id = ?`,
		songID,
	).Scan(&stats.Plays, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get play stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	err = s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(best_streak), 0)
		 FROM combat_runs WHERE song_id = ?`,
		songID,
	).Scan(&stats.Runs, &stats.BestScore, &stats.BestStreak)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}

	return stats, nil
}

// PlayCounts returns the number of plays per song.
func (s *Store) PlayCounts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT song_id, COUNT(*) FROM plays GROUP BY song_id`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot count plays: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		counts[id] = n
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return counts, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}
