// Package journal records performed renames in a SQLite database.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Kind distinguishes file renames from directory renames.
type Kind string

const (
	// KindFile marks an image file rename.
	KindFile Kind = "file"
	// KindDirectory marks a containing directory rename.
	KindDirectory Kind = "directory"
)

// Entry is one rename performed during a run.
type Entry struct {
	RenamedAt time.Time
	RunID     string
	Kind      Kind
	OldPath   string
	NewPath   string
	ID        int64
}

// Journal is an append-only rename log.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at dsn and migrates it.
func Open(ctx context.Context, dsn string) (*Journal, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to execute pragma %s: %w", pragma, err)
		}
	}

	j := &Journal{db: db}

	if err := j.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return j, nil
}

// Record appends entry. A zero RenamedAt is stamped with the current time.
func (j *Journal) Record(ctx context.Context, entry Entry) error {
	if entry.RenamedAt.IsZero() {
		entry.RenamedAt = time.Now()
	}

	_, err := j.db.ExecContext(ctx,
		"INSERT INTO renames (run_id, kind, old_path, new_path, renamed_at) VALUES (?, ?, ?, ?, ?)",
		entry.RunID, string(entry.Kind), entry.OldPath, entry.NewPath, entry.RenamedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record rename: %w", err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit <= 0 returns all.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	query := "SELECT id, run_id, kind, old_path, new_path, renamed_at FROM renames ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query renames: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			kind      string
			renamedAt int64
		)
		if err := rows.Scan(&entry.ID, &entry.RunID, &kind, &entry.OldPath, &entry.NewPath, &renamedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rename: %w", err)
		}
		entry.Kind = Kind(kind)
		entry.RenamedAt = time.Unix(0, renamedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read renames: %w", err)
	}

	return entries, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	if j.db != nil {
		if err := j.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	return nil
}
