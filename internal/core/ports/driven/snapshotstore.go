package driven

import (
	"context"
	"time"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// Snapshot is one persisted reconciliation result set.
type Snapshot struct {
	Records []domain.Record
	AsOf    time.Time
}

// SnapshotStore persists the last merged result set so a restarted
// process can serve a warm cache without refetching. Persistence is
// best effort; the engine never fails a refresh over a store error.
type SnapshotStore interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error

	// Load returns the stored snapshot, or domain.ErrNotFound when
	// none has been saved.
	Load(ctx context.Context) (Snapshot, error)

	// Close releases resources.
	Close() error
}
