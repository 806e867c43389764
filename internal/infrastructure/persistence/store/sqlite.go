// Package store provides the persisted key-value selection store backing
// account resolution between console sessions.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"

	"github.com/narrativekit/storydesk-go/internal/infrastructure/observability/logging"
	"github.com/narrativekit/storydesk-go/pkg/config"
)

// Config selects the backing database. A configured libsql URL wins;
// otherwise a local SQLite file is opened, creating its directory as
// needed.
type Config struct {
	SQLitePath string
	LibSQLURL  string
	AuthToken  string
}

// SQLiteStore implements account.Store over a single relational table.
type SQLiteStore struct {
	conn     *sql.DB
	useTurso bool
	logger   *logging.ChanneledLogger
}

// NewSQLiteStore opens the selection database and bootstraps its schema.
func NewSQLiteStore(cfg Config, logger *logging.ChanneledLogger) (*SQLiteStore, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if cfg.LibSQLURL != "" {
		connStr := cfg.LibSQLURL
		if cfg.AuthToken != "" {
			connStr += "?authToken=" + cfg.AuthToken
		}
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("libsql connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("libsql ping failed: %w", err)
		}
		useTurso = true
	} else {
		dbDir := filepath.Dir(cfg.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	s := &SQLiteStore{conn: conn, useTurso: useTurso, logger: logger}
	if err := s.bootstrap(); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) bootstrap() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS console_state (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("failed to create console_state table: %w", err)
	}
	return nil
}

// Get returns the stored value for key, or an empty string when the key
// was never set.
func (s *SQLiteStore) Get(key string) (string, error) {
	var value string
	err := s.conn.QueryRow(`SELECT value FROM console_state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		s.logger.Account().Error("Store read failed", "key", key, "error", err)
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

// Set writes key to value, replacing any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	_, err := s.conn.Exec(`
		INSERT INTO console_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		s.logger.Account().Error("Store write failed", "key", key, "error", err)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *SQLiteStore) Delete(key string) error {
	_, err := s.conn.Exec(`DELETE FROM console_state WHERE key = ?`, key)
	if err != nil {
		s.logger.Account().Error("Store delete failed", "key", key, "error", err)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Ping reports store reachability for the status endpoint.
func (s *SQLiteStore) Ping() error {
	return s.conn.Ping()
}

// ConnectionInfo describes the backing database for startup logs.
func (s *SQLiteStore) ConnectionInfo() string {
	if s.useTurso {
		return "Turso (libsql)"
	}
	return "SQLite (local file)"
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
