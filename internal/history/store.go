// Package history persists a log of finished recording sessions.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is one terminal session outcome.
type Entry struct {
	ID             string
	Name           string
	Status         string
	TranscriptPath string
	SummaryPath    string
	StartedAt      time.Time
	EndedAt        time.Time
}

// Store is a SQLite-backed session log.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL,
			transcriptPath TEXT,
			summaryPath TEXT,
			startedAt REAL NOT NULL,
			endedAt REAL NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts or replaces the entry for a session.
func (s *Store) Record(e Entry) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO sessions
			(id, name, status, transcriptPath, summaryPath, startedAt, endedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.Status, e.TranscriptPath, e.SummaryPath,
		unixFloat(e.StartedAt), unixFloat(e.EndedAt))
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, most recently started first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, name, status, transcriptPath, summaryPath, startedAt, endedAt
		FROM sessions
		ORDER BY startedAt DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var transcript, summary sql.NullString
		var startedAt, endedAt float64
		if err := rows.Scan(&e.ID, &e.Name, &e.Status, &transcript, &summary, &startedAt, &endedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		e.TranscriptPath = transcript.String
		e.SummaryPath = summary.String
		e.StartedAt = timeFromUnix(startedAt)
		e.EndedAt = timeFromUnix(endedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func unixFloat(t time.Time) float64 {
	return float64(t.UnixMilli()) / 1000
}

func timeFromUnix(f float64) time.Time {
	return time.UnixMilli(int64(f * 1000))
}
