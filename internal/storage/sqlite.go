// Package storage provides SQLite-based persistence for finished runs.
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
)

// ErrNoStore is returned by every method of a nil *Store, so callers that
// failed to open the database can keep playing without persistence.
var ErrNoStore = errors.New("storage: no store")

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// Run is one finished run.
type Run struct {
	ID        string
	Score     int
	Level     int
	Won       bool
	Mode      string
	CreatedAt time.Time
}

// ModeStats contains aggregated statistics for a game mode.
type ModeStats struct {
	Mode       string
	RunsCount  int
	Wins       int
	HighScore  int
	BestLevel  int
	AvgScore   float64
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

	// Create parent directories
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
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			won INTEGER NOT NULL DEFAULT 0,
			mode TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(mode, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// AddScore records a finished run and returns its generated ID.
func (s *Store) AddScore(score, level int, won bool, mode string) (string, error) {
	if s == nil {
		return "", ErrNoStore
	}
	id := uuid.NewString()
	_, err := s.db.Exec(
		"INSERT INTO runs (id, score, level, won, mode) VALUES (?, ?, ?, ?, ?)",
		id, score, level, won, mode,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return id, nil
}

// Scores returns every run of mode for the score screen: the most recent
// run first, then the rest by score descending. An empty mode matches all.
func (s *Store) Scores(mode string) ([]Run, error) {
	if s == nil {
		return nil, ErrNoStore
	}

	latest, err := s.queryRuns(
		`SELECT id, score, level, won, mode, created_at
		 FROM runs
		 WHERE (? = '' OR mode = ?)
		 ORDER BY rowid DESC
		 LIMIT 1`,
		mode, mode,
	)
	if err != nil || len(latest) == 0 {
		return latest, err
	}

	rest, err := s.queryRuns(
		`SELECT id, score, level, won, mode, created_at
		 FROM runs
		 WHERE (? = '' OR mode = ?) AND id != ?
		 ORDER BY score DESC, rowid DESC`,
		mode, mode, latest[0].ID,
	)
	if err != nil {
		return nil, err
	}
	return append(latest, rest...), nil
}

// TopScores retrieves the top N runs of mode ordered by score descending.
func (s *Store) TopScores(mode string, limit int) ([]Run, error) {
	if s == nil {
		return nil, ErrNoStore
	}
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, score, level, won, mode, created_at
		 FROM runs
		 WHERE (? = '' OR mode = ?)
		 ORDER BY score DESC, rowid DESC
		 LIMIT ?`,
		mode, mode, limit,
	)
}

// HighScore returns the highest score for mode, 0 if there are no runs.
func (s *Store) HighScore(mode string) (int, error) {
	if s == nil {
		return 0, ErrNoStore
	}
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM runs WHERE (? = '' OR mode = ?)",
		mode, mode,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// Clear deletes the runs of mode, or every run when mode is empty.
func (s *Store) Clear(mode string) error {
	if s == nil {
		return ErrNoStore
	}
	_, err := s.db.Exec("DELETE FROM runs WHERE (? = '' OR mode = ?)", mode, mode)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// Stats retrieves aggregated statistics for every mode that has runs.
func (s *Store) Stats() (map[string]*ModeStats, error) {
	if s == nil {
		return nil, ErrNoStore
	}
	rows, err := s.db.Query(
		`SELECT mode, COUNT(*), SUM(won), MAX(score), MAX(level), AVG(score), MAX(created_at)
		 FROM runs
		 GROUP BY mode`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*ModeStats)
	for rows.Next() {
		var st ModeStats
		var lastPlayed any
		if err := rows.Scan(&st.Mode, &st.RunsCount, &st.Wins, &st.HighScore, &st.BestLevel, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Mode] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Score, &r.Level, &r.Won, &r.Mode, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles the driver returning either time.Time or text.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
