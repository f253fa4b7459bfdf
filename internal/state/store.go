// Package state persists the overlay-to-original folder mapping across
// panel restarts. It is the only state that outlives a single run.
package state

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoMapping is returned when no original folder was recorded for an
// overlay path.
var ErrNoMapping = fmt.Errorf("no recorded original folder for this overlay")

// Store is the SQLite-backed durable key-value store for overlay
// mappings. Entries have no expiry; they are cleared only by an explicit
// restore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the store at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS overlay_map (
		overlay TEXT PRIMARY KEY,
		original TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// PutMapping records that overlay was derived from original, replacing
// any previous record for the same overlay path.
func (s *Store) PutMapping(overlay, original string) error {
	_, err := s.db.Exec(
		"INSERT INTO overlay_map (overlay, original) VALUES (?, ?) ON CONFLICT(overlay) DO UPDATE SET original = excluded.original",
		overlay, original)
	if err != nil {
		return fmt.Errorf("failed to record overlay mapping: %w", err)
	}
	return nil
}

// GetMapping returns the original folder recorded for overlay, or
// ErrNoMapping.
func (s *Store) GetMapping(overlay string) (string, error) {
	var original string
	err := s.db.QueryRow("SELECT original FROM overlay_map WHERE overlay = ?", overlay).Scan(&original)
	if err == sql.ErrNoRows {
		return "", ErrNoMapping
	}
	if err != nil {
		return "", fmt.Errorf("failed to read overlay mapping: %w", err)
	}
	return original, nil
}

// DeleteMapping removes the record for overlay. Deleting an absent record
// is not an error.
func (s *Store) DeleteMapping(overlay string) error {
	_, err := s.db.Exec("DELETE FROM overlay_map WHERE overlay = ?", overlay)
	if err != nil {
		return fmt.Errorf("failed to delete overlay mapping: %w", err)
	}
	return nil
}
