package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// schema bootstraps the snapshot tables. The store holds exactly one
// snapshot at a time, so snapshots is a single-row table.
const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	taken_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	proposal_id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	payload TEXT NOT NULL
);
`

// Store persists reconciliation snapshots in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a snapshot store at the specified data directory.
// If dataDir is empty, defaults to ~/.sipdex/data/snapshot.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sipdex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "snapshot.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save replaces the stored snapshot atomically.
func (s *Store) Save(ctx context.Context, snap driven.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, taken_at) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET taken_at = excluded.taken_at
	`, snap.AsOf.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving snapshot row: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (proposal_id, position, payload) VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range snap.Records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", rec.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, string(payload)); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, preserving the saved record order.
func (s *Store) Load(ctx context.Context) (driven.Snapshot, error) {
	var takenAt string
	err := s.db.QueryRowContext(ctx, "SELECT taken_at FROM snapshots WHERE id = 1").Scan(&takenAt)
	if err == sql.ErrNoRows {
		return driven.Snapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return driven.Snapshot{}, fmt.Errorf("loading snapshot row: %w", err)
	}

	asOf, err := time.Parse(time.RFC3339Nano, takenAt)
	if err != nil {
		return driven.Snapshot{}, fmt.Errorf("parsing snapshot time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT payload FROM records ORDER BY position")
	if err != nil {
		return driven.Snapshot{}, fmt.Errorf("loading records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return driven.Snapshot{}, fmt.Errorf("scanning record: %w", err)
		}
		var rec domain.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return driven.Snapshot{}, fmt.Errorf("decoding record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return driven.Snapshot{}, fmt.Errorf("iterating records: %w", err)
	}

	return driven.Snapshot{Records: records, AsOf: asOf}, nil
}
