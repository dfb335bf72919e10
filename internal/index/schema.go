// Package index mirrors the loaded dataset into SQLite for text search and
// per-cluster aggregates, with optional FTS5 full-text search.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS records (
	id                 INTEGER PRIMARY KEY,
	cluster_id         INTEGER NOT NULL,
	category           TEXT NOT NULL DEFAULT '',
	title              TEXT NOT NULL DEFAULT '',
	body_excerpt       TEXT NOT NULL DEFAULT '',
	score              INTEGER NOT NULL DEFAULT 0,
	comment_count      INTEGER NOT NULL DEFAULT 0,
	interaction_amount REAL NOT NULL DEFAULT 0,
	created_at         INTEGER
);

CREATE INDEX IF NOT EXISTS idx_records_cluster ON records(cluster_id);
CREATE INDEX IF NOT EXISTS idx_records_category ON records(category);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
