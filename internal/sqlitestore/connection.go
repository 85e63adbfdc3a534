// Package sqlitestore is the concrete C1 data access contract: a
// database/sql + go-sqlite3 implementation of the repositories interfaces
// backed by the store_status/business_hours/timezones/store_report tables.
package sqlitestore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// DB wraps a pooled SQLite connection and owns schema initialization.
type DB struct {
	conn *sql.DB
}

// Config controls connection pooling and the on-disk path.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns pool settings appropriate for a single-process
// report driver talking to a local SQLite file.
func DefaultConfig(path string) Config {
	return Config{
		Path:            path,
		MaxOpenConns:    8,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}
}

// Open creates the database directory if needed, opens a pooled connection
// with WAL journaling, and applies the embedded schema.
func Open(cfg Config) (*DB, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlitestore: path cannot be empty")
	}
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("sqlitestore: create directory: %w", err)
		}
	}

	dsn := cfg.Path + "?_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_timeout=5000"
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlitestore: ping: %w", err)
	}

	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("sqlitestore: read schema: %w", err)
	}

	if _, err := db.conn.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("sqlitestore: apply schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the pooled *sql.DB for the loader's bulk-insert transactions.
func (db *DB) Conn() *sql.DB {
	return db.conn
}
