// Package index provides an optional SQLite-backed search accelerator
// over extracted meeting records. Candidate selection runs over a
// precomputed lowercased text column so it never drops a record the
// exact substring predicate would match. The query layer never requires
// it; a nil index means linear scans.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/ansuz/internal/meetings"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS meetings (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL DEFAULT '',
	start_ts     TEXT NOT NULL DEFAULT '',
	platform     TEXT NOT NULL DEFAULT '',
	folder_name  TEXT NOT NULL DEFAULT '',
	participants TEXT NOT NULL DEFAULT '',
	notes        TEXT NOT NULL DEFAULT '',
	search_text  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_meetings_start_ts ON meetings(start_ts);
`

// DB wraps a sql.DB with index-specific operations.
type DB struct {
	conn *sql.DB
}

// Verify *DB satisfies the service's index contract at compile time.
var _ meetings.Index = (*DB)(nil)

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
