// Package history persists translation lookups in a local sqlite database.
package history

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/wordwire/internal/provider"
)

const schema = `
CREATE TABLE IF NOT EXISTS lookups (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	original TEXT NOT NULL,
	source_tag TEXT NOT NULL,
	target_tag TEXT NOT NULL,
	meaning TEXT NOT NULL,
	phonetic TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at);
`

// Entry is one recorded lookup.
type Entry struct {
	ID        int64
	Original  string
	SourceTag string
	TargetTag string
	Meaning   string
	Phonetic  string
	CreatedAt time.Time
}

// Store wraps the sqlite lookup log.
type Store struct {
	db *sql.DB
}

// DefaultPath returns the default history database location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wordwire.db"
	}
	return filepath.Join(home, ".local", "state", "wordwire", "history.db")
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a translation result to the log.
func (s *Store) Record(ctx context.Context, result *provider.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookups (original, source_tag, target_tag, meaning, phonetic) VALUES (?, ?, ?, ?, ?)`,
		result.Original, result.SourceTag, result.TargetTag, result.Meaning, result.Phonetic)
	if err != nil {
		return fmt.Errorf("failed to record lookup: %w", err)
	}
	return nil
}

// Recent returns the latest lookups, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, original, source_tag, target_tag, meaning, phonetic, created_at
		 FROM lookups ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Original, &e.SourceTag, &e.TargetTag, &e.Meaning, &e.Phonetic, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan lookup: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of recorded lookups.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lookups`).Scan(&n)
	return n, err
}

// ExportCSV writes all lookups to w as CSV, oldest first, with headers.
func (s *Store) ExportCSV(ctx context.Context, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT original, source_tag, target_tag, meaning, phonetic, created_at FROM lookups ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query lookups: %w", err)
	}
	defer rows.Close()

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"original", "source", "target", "meaning", "phonetic", "looked_up_at"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Original, &e.SourceTag, &e.TargetTag, &e.Meaning, &e.Phonetic, &e.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan lookup: %w", err)
		}
		record := []string{e.Original, e.SourceTag, e.TargetTag, e.Meaning, e.Phonetic,
			e.CreatedAt.Format("2006-01-02 15:04:05")}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

// Archive moves the history database aside into an archive directory with
// a timestamped name and returns the new path. The caller must have closed
// the store first.
func Archive(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return "", fmt.Errorf("history database does not exist: %s", dbPath)
	}

	archiveDir := filepath.Join(filepath.Dir(dbPath), "archive")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("history-%s.db", timestamp))

	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("history-%s.db", timestamp))
	}

	if err := os.Rename(dbPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive history database: %w", err)
	}
	return archivePath, nil
}
