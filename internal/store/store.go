// Package store is the durable persistence layer: the generated-game content
// cache, the session performance log, the LLM request audit log, and the
// saved child profile. Everything lives in a single SQLite file.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the database handle and hands out repositories.
type Store struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn, applies the recommended
// pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Games returns the game content cache repository.
func (s *Store) Games() *GameRepo {
	return &GameRepo{db: s.db}
}

// Performance returns the session performance log repository.
func (s *Store) Performance() *PerformanceRepo {
	return &PerformanceRepo{db: s.db}
}

// LLMRequests returns the LLM request audit repository.
func (s *Store) LLMRequests() *LLMRequestRepo {
	return &LLMRequestRepo{db: s.db}
}

// Profiles returns the saved-profile repository.
func (s *Store) Profiles() *ProfileRepo {
	return &ProfileRepo{db: s.db}
}

// Curricula returns the saved-curriculum repository.
func (s *Store) Curricula() *CurriculumRepo {
	return &CurriculumRepo{db: s.db}
}

// Reset drops all learner data. Used by `sprout reset` and test isolation.
func (s *Store) Reset() error {
	for _, table := range []string{"games", "performance_log", "llm_requests", "profiles", "curricula"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS games (
			module_id  TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS performance_log (
			id            TEXT PRIMARY KEY,
			module_id     TEXT NOT NULL,
			module_title  TEXT NOT NULL,
			ts            TIMESTAMP NOT NULL,
			duration_ms   INTEGER NOT NULL,
			correct_count INTEGER NOT NULL,
			mistake_count INTEGER NOT NULL,
			stress        TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS llm_requests (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			provider      TEXT NOT NULL,
			model         TEXT NOT NULL,
			purpose       TEXT NOT NULL,
			input_tokens  INTEGER NOT NULL DEFAULT 0,
			output_tokens INTEGER NOT NULL DEFAULT 0,
			latency_ms    INTEGER NOT NULL DEFAULT 0,
			success       BOOLEAN NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			id         TEXT PRIMARY KEY,
			data       TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS curricula (
			id           TEXT PRIMARY KEY,
			data         TEXT NOT NULL,
			generated_at TIMESTAMP NOT NULL
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SPROUT_DB environment variable
// 2. $XDG_DATA_HOME/sprout/sprout.db
// 3. ~/.local/share/sprout/sprout.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SPROUT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sprout", "sprout.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
