package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// schemaSQL is the single source of truth for the cache schema. It is
// embedded at compile time from schema.sql.
//
//go:embed schema.sql
var schemaSQL string

// DB wraps the SQLite cache artifact with write serialization
type DB struct {
	conn    *sql.DB
	writeMu sync.Mutex // serializes write transactions
}

// Connect opens the cache database with WAL mode enabled
func Connect(dbPath string) (*DB, error) {
	dsn := dbPath + "?_journal=WAL&_fk=1&_busy_timeout=5000"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time; a single connection plus
	// the write mutex keeps rebuild transactions from colliding.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set %s: %v", pragma, err)
		}
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// EnsureSchema creates the cache tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// TableRowCount returns how many rows a summary table holds. The rebuild
// skip check uses this: a populated table counts as a valid cache.
func (db *DB) TableRowCount(ctx context.Context, table string) (int, error) {
	switch table {
	case "bus_monthly", "crz_hourly", "crz_daily", "crz_weekly", "crz_monthly", "crz_excluded", "taxi_monthly":
	default:
		return 0, fmt.Errorf("unknown summary table %q", table)
	}
	var n int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
