// ABOUTME: SQLite connection and schema lifecycle for the iteration history index
// ABOUTME: Uses modernc.org/sqlite for pure-Go SQLite support
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

// DB wraps a SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// DefaultDataDir returns the user data directory for docright.
// XDG_DATA_HOME is read at call time so tests can redirect it.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "docright")
}

// DefaultDBPath returns the default history database path
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "history.db")
}

// Open opens or creates the history database at path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return setup(conn, path)
}

// OpenInMemory creates an in-memory database for tests.
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", memoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// every pooled connection would get its own empty database
	conn.SetMaxOpenConns(1)
	return setup(conn, memoryPath)
}

func setup(conn *sql.DB, path string) (*DB, error) {
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db := &DB{conn: conn, path: path}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

// migrate creates the schema and stamps SchemaVersion into user_version.
// Databases written by a newer schema are refused.
func (db *DB) migrate() error {
	version, err := db.Version()
	if err != nil {
		return err
	}
	if version > SchemaVersion {
		return fmt.Errorf("history schema version %d is newer than supported %d", version, SchemaVersion)
	}
	if _, err := db.conn.Exec(Schema); err != nil {
		return err
	}
	_, err = db.conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion))
	return err
}

// Version returns the schema version recorded in the database.
func (db *DB) Version() (int, error) {
	var v int
	if err := db.conn.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	err := db.conn.Close()
	db.conn = nil
	return err
}

// Path returns the database file path
func (db *DB) Path() string {
	return db.path
}
