// Package history persists render outcomes in SQLite so watch sessions and
// the history command can inspect past runs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/coursebook/internal/book"
)

// Entry is one recorded render run.
type Entry struct {
	ID           string
	Book         string
	Outcome      string
	FilesWritten int
	DurationMS   int64
	Error        string
	RecordedAt   time.Time
}

// FromReport converts a render report into a history entry.
func FromReport(rep *book.RenderReport) Entry {
	return Entry{
		ID:           rep.ID,
		Book:         rep.Book,
		Outcome:      string(rep.Outcome),
		FilesWritten: rep.FilesWritten,
		DurationMS:   rep.Duration().Milliseconds(),
		Error:        rep.Error,
		RecordedAt:   rep.End,
	}
}

// Store persists render history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and if needed creates) a history database at dbPath.
// Use ":memory:" for an in-memory database, or a file path for persistent storage.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// In-memory databases exist per connection; a single connection keeps
	// them coherent and keeps file databases serialized.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL,
		book TEXT NOT NULL,
		outcome TEXT NOT NULL,
		files_written INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		error TEXT,
		recorded_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_renders_recorded_at ON renders(recorded_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores one render entry. A missing ID or timestamp is filled in.
func (s *Store) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO renders (id, book, outcome, files_written, duration_ms, error, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		e.ID, e.Book, e.Outcome, e.FilesWritten, e.DurationMS, e.Error, e.RecordedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert render entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries in reverse insertion order (newest
// first). A non-positive limit defaults to 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, book, outcome, files_written, duration_ms, error, recorded_at FROM renders ORDER BY seq DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query render entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var recordedAt int64
		if err := rows.Scan(&e.ID, &e.Book, &e.Outcome, &e.FilesWritten, &e.DurationMS, &e.Error, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan render entry: %w", err)
		}
		e.RecordedAt = time.UnixMilli(recordedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }
