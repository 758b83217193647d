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

// End reasons recorded with a run.
const (
	EndTraced = "traced" // last life lost
	EndQuit   = "quit"   // player left mid-run
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Run is one finished ghostgrid session.
type Run struct {
	ID        int64
	RunID     string // UUID, generated on save when empty
	Ruleset   string
	Player    string // "local" or the SSH user
	Score     int
	Level     int
	Coins     int
	EndReason string
	Duration  time.Duration
	CreatedAt time.Time
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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			ruleset TEXT NOT NULL,
			player TEXT NOT NULL DEFAULT 'local',
			score INTEGER NOT NULL,
			level INTEGER NOT NULL,
			coins INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_ruleset ON runs(ruleset);
		CREATE INDEX IF NOT EXISTS idx_runs_top ON runs(ruleset, score DESC, level DESC);
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

// SaveRun records a finished run and returns it with ID and RunID filled.
func (s *Store) SaveRun(r Run) (Run, error) {
	if r.Ruleset == "" {
		return r, errors.New("storage: run has no ruleset")
	}
	if r.RunID == "" {
		r.RunID = uuid.NewString()
	}
	if r.Player == "" {
		r.Player = "local"
	}
	if r.EndReason == "" {
		r.EndReason = EndTraced
	}

	result, err := s.db.Exec(
		`INSERT INTO runs (run_id, ruleset, player, score, level, coins, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Ruleset, r.Player, r.Score, r.Level, r.Coins, r.EndReason, int64(r.Duration/time.Second),
	)
	if err != nil {
		return r, fmt.Errorf("storage: cannot save run: %w", err)
	}

	r.ID, err = result.LastInsertId()
	if err != nil {
		return r, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return r, nil
}

const runColumns = `id, run_id, ruleset, player, score, level, coins, end_reason, duration_secs, created_at`

// TopRuns retrieves the best N runs for a ruleset, by score then level.
func (s *Store) TopRuns(ruleset string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE ruleset = ?
		 ORDER BY score DESC, level DESC, id ASC
		 LIMIT ?`,
		ruleset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// RecentRuns retrieves the most recent runs across all rulesets.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query recent runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var secs int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.RunID, &r.Ruleset, &r.Player, &r.Score, &r.Level,
			&r.Coins, &r.EndReason, &secs, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Duration = time.Duration(secs) * time.Second
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return runs, nil
}

// parseTime handles both time.Time and string DATETIME values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// HighScore returns the highest score for the given ruleset.
// Returns 0 if no runs exist.
func (s *Store) HighScore(ruleset string) (int, error) {
	var score int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(score), 0) FROM runs WHERE ruleset = ?",
		ruleset,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	return score, nil
}

// ClearRuns deletes all runs for the given ruleset.
func (s *Store) ClearRuns(ruleset string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE ruleset = ?", ruleset)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// RunStats contains aggregated statistics for a ruleset.
type RunStats struct {
	Ruleset    string
	Runs       int
	HighScore  int
	BestLevel  int
	AvgScore   float64
	TotalCoins int64
	LastPlayed time.Time
}

// GetStats retrieves aggregated statistics for a ruleset.
func (s *Store) GetStats(ruleset string) (*RunStats, error) {
	stats := &RunStats{Ruleset: ruleset}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(MAX(level), 0),
		        COALESCE(AVG(score), 0), COALESCE(SUM(coins), 0), MAX(created_at)
		 FROM runs WHERE ruleset = ?`,
		ruleset,
	).Scan(&stats.Runs, &stats.HighScore, &stats.BestLevel, &stats.AvgScore, &stats.TotalCoins, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get run stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)
	return stats, nil
}

// AllStats retrieves statistics for every ruleset that has been played.
func (s *Store) AllStats() (map[string]*RunStats, error) {
	rows, err := s.db.Query(
		`SELECT ruleset, COUNT(*), MAX(score), MAX(level), AVG(score), SUM(coins), MAX(created_at)
		 FROM runs
		 GROUP BY ruleset`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*RunStats)
	for rows.Next() {
		var st RunStats
		var lastPlayed any
		if err := rows.Scan(&st.Ruleset, &st.Runs, &st.HighScore, &st.BestLevel,
			&st.AvgScore, &st.TotalCoins, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats[st.Ruleset] = &st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}
