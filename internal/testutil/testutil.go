// Package testutil provides shared test helpers for building cache
// fixtures and temporary index databases.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/ansuz/internal/index"
)

// WriteCacheFile writes a double-encoded cache fixture: the inner
// document graph is serialized to a JSON string and embedded as the
// "cache" field of the outer envelope. Returns the file path.
func WriteCacheFile(t *testing.T, inner map[string]any) string {
	t.Helper()
	innerJSON, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}
	outer, err := json.Marshal(map[string]any{"cache": string(innerJSON)})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "cache-v3.json")
	if err := os.WriteFile(path, outer, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// State wraps a state object into the inner payload shape.
func State(state map[string]any) map[string]any {
	return map[string]any{"state": state}
}

// TestIndex creates a temporary SQLite index that is automatically cleaned up.
func TestIndex(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "ansuz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
