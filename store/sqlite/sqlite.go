/*
Package sqlite provides a SQLite-backed implementation of the document
repository.

PURPOSE:
  The whole application state is one JSON document. This store keeps
  the live copy in a single-row table and appends a snapshot row on
  every save, so any previous state can be recovered by hand even
  though the live row is overwritten in place.

KEY TABLES:
  document:           One row (id = 1) holding the current state
  document_snapshots: Append-only history of every saved state

CONCURRENCY:
  sync.RWMutex guards the connection. The repository contract is
  last-write-wins across Load/Save pairs; the store adds no locking
  beyond keeping individual statements safe.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/deploy.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - engine/store.go: Repository contract
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harborline/deploy-engine/engine"
)

// Store implements engine.Repository using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Live document (single row)
	CREATE TABLE IF NOT EXISTS document (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		body TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Append-only history of saved states
	CREATE TABLE IF NOT EXISTS document_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		body TEXT NOT NULL,
		saved_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at
		ON document_snapshots(saved_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the current document, or an empty one when nothing has
// been saved yet.
func (s *Store) Load(ctx context.Context) (*engine.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM document WHERE id = 1`).Scan(&body)
	if err == sql.ErrNoRows {
		return engine.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	doc := engine.NewDocument()
	if err := json.Unmarshal([]byte(body), doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// Save replaces the live document and appends a snapshot row.
func (s *Store) Save(ctx context.Context, doc *engine.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO document (id, body, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(body), now); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO document_snapshots (body, saved_at) VALUES (?, ?)`,
		string(body), now); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return tx.Commit()
}

// PruneSnapshots deletes history older than the retention window,
// keeping the snapshot table from growing without bound. Run this from
// a periodic job, not from the request path.
func (s *Store) PruneSnapshots(ctx context.Context, retain time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-retain).Format(time.RFC3339)
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM document_snapshots WHERE saved_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

// SnapshotCount reports how many history rows exist.
func (s *Store) SnapshotCount(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_snapshots`).Scan(&n)
	return n, err
}
