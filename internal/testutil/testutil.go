// Package testutil provides shared test helpers for stores, indexes, and
// data directories.
package testutil

import (
	"log/slog"
	"os"
	"testing"

	"github.com/calder/folio/internal/content"
	"github.com/calder/folio/internal/index"
	"github.com/calder/folio/internal/storage"
)

// TestStore creates a content store seeded with the built-in defaults.
func TestStore(t *testing.T) *content.Store {
	t.Helper()
	return content.New()
}

// TestIndex creates a temporary SQLite index that is automatically cleaned up.
func TestIndex(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "folio-test-*.db")
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

// TestDataDir creates a temporary data directory.
func TestDataDir(t *testing.T) *storage.Dir {
	t.Helper()
	dir, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return dir
}

// TestLogger returns a logger writing to stderr at warn level.
func TestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}
