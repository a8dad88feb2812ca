// Package store keeps the site's small amount of server-side state in SQLite:
// privacy-conscious visit records, the palette colour cache and contact
// form messages.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,  -- hashed instead of the raw IP
		user_agent TEXT,
		path TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS visitors_timestamp ON visitors (timestamp)`,
	`CREATE TABLE IF NOT EXISTS colors (
		source TEXT PRIMARY KEY,
		color TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		delivered INTEGER NOT NULL DEFAULT 0
	)`,
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// One connection keeps ":memory:" databases alive and serialises writes.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}
	for _, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Color returns the cached palette colour for an image source.
func (s *Store) Color(ctx context.Context, source string) (string, bool, error) {
	var c string
	err := s.db.QueryRowContext(ctx, `SELECT color FROM colors WHERE source = ?`, source).Scan(&c)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return c, true, nil
}

// SaveColor stores or replaces the palette colour for an image source.
func (s *Store) SaveColor(ctx context.Context, source, color string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO colors (source, color, created_at) VALUES (?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET color = excluded.color, created_at = excluded.created_at
	`, source, color, time.Now().UTC())
	return err
}
