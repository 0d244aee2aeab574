package index

import (
	"fmt"
	"strings"

	"github.com/starford/ansuz/internal/models"
)

// searchText builds the indexed haystack for one record: the lowercased
// concatenation of title, notes, and participant names, matching the
// text the linear free-text predicate scans. Lowercasing happens here,
// in Go, so the index and the linear scan share one case folding.
func searchText(m models.Meeting, participants string) string {
	return strings.ToLower(m.Title + " " + m.Notes + " " + participants)
}

// Sync replaces all indexed rows with the given extraction output.
// Records are replaced wholesale, mirroring the snapshot lifecycle:
// the index always reflects exactly one extraction pass.
func (db *DB) Sync(records []models.Meeting) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM meetings`); err != nil {
		return fmt.Errorf("index: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO meetings (id, title, start_ts, platform, folder_name, participants, notes, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range records {
		participants := strings.Join(m.Participants, " ")
		if _, err := stmt.Exec(m.ID, m.Title, m.StartTS, string(m.Platform),
			m.FolderName, participants, m.Notes, searchText(m, participants)); err != nil {
			return fmt.Errorf("index: insert meeting: %w", err)
		}
	}

	return tx.Commit()
}

// Search returns candidate meeting ids whose indexed text contains the
// query, newest first. The pattern is lowercased in Go before matching
// against the pre-lowercased search_text column, so the candidate set
// is a superset of the exact case-insensitive substring matches (LIKE
// wildcards in the query can only widen it). limit <= 0 means
// unbounded.
func (db *DB) Search(query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = -1
	}
	like := "%" + strings.ToLower(query) + "%"
	rows, err := db.conn.Query(`
		SELECT id
		FROM meetings
		WHERE search_text LIKE ?
		ORDER BY start_ts DESC
		LIMIT ?
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Count returns the number of indexed meetings.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM meetings`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}
