/*
Package ledger records export jobs in a SQLite database.

Every job gets a row when it starts. When it finishes, the row is completed
with the document path, the counts of slides and pages, the degraded flag
and, for failed jobs, the error message.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2026 The presenton authors
*/
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers driver "sqlite3"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'presenton.ledger'.
func tracer() tracing.Trace {
	return tracing.Select("presenton.ledger")
}

// Entry is one export job.
type Entry struct {
	ID             string     `json:"id"`
	PresentationID string     `json:"presentation_id"`
	Kind           string     `json:"kind"` // "pptx" or "pdf"
	Path           string     `json:"path,omitempty"`
	Slides         int        `json:"slides"`
	Pages          int        `json:"pages"`
	Degraded       bool       `json:"degraded"`
	Error          string     `json:"error,omitempty"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

// Outcome completes an entry.
type Outcome struct {
	Path     string
	Slides   int
	Pages    int
	Degraded bool
	Err      error
}

// Ledger is a SQLite-backed export ledger.
type Ledger struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id TEXT PRIMARY KEY,
	presentation_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	path TEXT NOT NULL DEFAULT '',
	slides INTEGER NOT NULL DEFAULT 0,
	pages INTEGER NOT NULL DEFAULT 0,
	degraded INTEGER NOT NULL DEFAULT 0,
	error TEXT NOT NULL DEFAULT '',
	started_at DATETIME NOT NULL,
	finished_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_exports_started ON exports(started_at);`

// Open opens or creates the ledger at path. An empty path opens an
// in-memory ledger.
func Open(path string) (*Ledger, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
		dsn = "file:" + path + "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger tables: %w", err)
	}
	tracer().Infof("export ledger at %q", dsn)
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record adds a started job.
func (l *Ledger) Record(ctx context.Context, id, presentation, kind string, started time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO exports (id, presentation_id, kind, started_at) VALUES (?, ?, ?, ?)`,
		id, presentation, kind, started.UTC())
	if err != nil {
		return fmt.Errorf("recording export %s: %w", id, err)
	}
	return nil
}

// Finish completes the entry of job id.
func (l *Ledger) Finish(ctx context.Context, id string, out Outcome, finished time.Time) error {
	msg := ""
	if out.Err != nil {
		msg = out.Err.Error()
	}
	res, err := l.db.ExecContext(ctx,
		`UPDATE exports SET path = ?, slides = ?, pages = ?, degraded = ?, error = ?, finished_at = ?
		 WHERE id = ?`,
		out.Path, out.Slides, out.Pages, out.Degraded, msg, finished.UTC(), id)
	if err != nil {
		return fmt.Errorf("finishing export %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("finishing export %s: no such export", id)
	}
	return nil
}

// Recent returns the latest limit entries, newest first.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, presentation_id, kind, path, slides, pages, degraded, error, started_at, finished_at
		 FROM exports ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	defer rows.Close()
	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var finished sql.NullTime
		if err := rows.Scan(&e.ID, &e.PresentationID, &e.Kind, &e.Path, &e.Slides, &e.Pages,
			&e.Degraded, &e.Error, &e.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("listing exports: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			e.FinishedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
