package services

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
	"github.com/sipdex/sipdex/internal/core/ports/driving"
	"github.com/sipdex/sipdex/internal/logger"
	"github.com/sipdex/sipdex/internal/merge"
	"github.com/sipdex/sipdex/internal/resolvers"
)

// DefaultTTL is how long a reconciled result set stays fresh.
const DefaultTTL = 10 * time.Minute

// Ensure ReconcileEngine implements the interface.
var _ driving.Engine = (*ReconcileEngine)(nil)

// snapshot is one immutable reconciled result set. The engine swaps
// whole snapshots atomically so readers never observe a partial update.
type snapshot struct {
	records []domain.Record
	byID    map[string]domain.Record
	asOf    time.Time
}

// ReconcileEngine runs the fetch -> parse -> merge pipeline behind a
// time-bounded cache. Overlapping refresh triggers coalesce into a
// single in-flight run.
type ReconcileEngine struct {
	fetchers []driven.SourceFetcher
	store    driven.SnapshotStore // optional
	ttl      time.Duration

	snap    atomic.Pointer[snapshot]
	refresh singleflight.Group
}

// NewReconcileEngine creates the engine. store may be nil to disable
// snapshot persistence; ttl <= 0 selects DefaultTTL. When the store
// holds a previous snapshot it is warm-loaded so a restarted process
// can serve immediately, subject to the usual staleness check.
func NewReconcileEngine(fs []driven.SourceFetcher, store driven.SnapshotStore, ttl time.Duration) *ReconcileEngine {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	e := &ReconcileEngine{
		fetchers: fs,
		store:    store,
		ttl:      ttl,
	}
	e.warmLoad()
	return e
}

// ListAll returns the reconciled proposal list. A pipeline failure
// yields an empty list, never an error: the engine degrades toward
// "fewer records" rather than failing closed.
func (e *ReconcileEngine) ListAll(ctx context.Context, forceRefresh bool) ([]domain.Record, error) {
	snap, _ := e.current(ctx, forceRefresh)
	if snap == nil {
		return []domain.Record{}, nil
	}
	out := make([]domain.Record, len(snap.records))
	copy(out, snap.records)
	return out, nil
}

// GetByID looks up one proposal by a caller-supplied id. On a miss
// against a cached snapshot it forces exactly one reload before giving
// up, so lookups for genuinely nonexistent ids cannot trigger refresh
// storms.
func (e *ReconcileEngine) GetByID(ctx context.Context, id string, forceRefresh bool) (domain.Record, error) {
	candidates := resolvers.NormalizeLookup(id)
	if len(candidates) == 0 {
		return domain.Record{}, domain.ErrInvalidInput
	}

	snap, refreshed := e.current(ctx, forceRefresh)
	if rec, ok := lookup(snap, candidates); ok {
		return rec, nil
	}

	if !refreshed {
		snap, _ = e.current(ctx, true)
		if rec, ok := lookup(snap, candidates); ok {
			return rec, nil
		}
	}
	return domain.Record{}, domain.ErrNotFound
}

// current returns a usable snapshot, refreshing when stale or forced.
// The second return reports whether this call (re)loaded the snapshot.
func (e *ReconcileEngine) current(ctx context.Context, force bool) (*snapshot, bool) {
	if snap := e.snap.Load(); snap != nil && !force && time.Since(snap.asOf) < e.ttl {
		return snap, false
	}

	// Coalesce overlapping triggers: a forced caller joins the
	// in-flight run instead of racing a second cache writer.
	result, _, _ := e.refresh.Do("reconcile", func() (any, error) {
		return e.runPipeline(ctx), nil
	})
	snap, _ := result.(*snapshot)
	return snap, true
}

// runPipeline executes one full reconciliation: concurrent fetches,
// merge, sort, atomic swap, best-effort persistence. When every fetcher
// fails the cache is invalidated rather than repopulated with an empty
// stale set.
func (e *ReconcileEngine) runPipeline(ctx context.Context) *snapshot {
	run := uuid.New().String()[:8]
	started := time.Now()
	logger.Section("reconcile " + run)

	type result struct {
		records []domain.Record
		err     error
	}
	results := make([]result, len(e.fetchers))

	done := make(chan int, len(e.fetchers))
	for i, f := range e.fetchers {
		go func() {
			recs, err := f.Fetch(ctx)
			results[i] = result{records: recs, err: err}
			done <- i
		}()
	}
	for range e.fetchers {
		<-done
	}

	var all []domain.Record
	failed := 0
	for i, res := range results {
		if res.err != nil {
			failed++
			logger.Warn("run %s: fetcher %s degraded to empty: %v", run, e.fetchers[i].Name(), res.err)
			continue
		}
		all = append(all, res.records...)
	}

	if len(e.fetchers) > 0 && failed == len(e.fetchers) {
		logger.Warn("run %s: all fetchers failed, invalidating cache", run)
		e.snap.Store(nil)
		return nil
	}

	merged := merge.Merge(all)
	snap := &snapshot{
		records: merged,
		byID:    indexByID(merged),
		asOf:    time.Now(),
	}
	e.snap.Store(snap)
	logger.Info("run %s: %d records from %d raw in %s", run, len(merged), len(all), time.Since(started).Round(time.Millisecond))

	if e.store != nil {
		if err := e.store.Save(ctx, driven.Snapshot{Records: merged, AsOf: snap.asOf}); err != nil {
			logger.Warn("run %s: snapshot save failed: %v", run, err)
		}
	}
	return snap
}

// warmLoad seeds the cache from the snapshot store, if any.
func (e *ReconcileEngine) warmLoad() {
	if e.store == nil {
		return
	}
	stored, err := e.store.Load(context.Background())
	if err != nil {
		return
	}
	e.snap.Store(&snapshot{
		records: stored.Records,
		byID:    indexByID(stored.Records),
		asOf:    stored.AsOf,
	})
	logger.Debug("warm-loaded %d records as of %s", len(stored.Records), stored.AsOf.Format(time.RFC3339))
}

func indexByID(records []domain.Record) map[string]domain.Record {
	byID := make(map[string]domain.Record, len(records))
	for _, rec := range records {
		byID[strings.ToLower(rec.ID)] = rec
	}
	return byID
}

func lookup(snap *snapshot, candidates []string) (domain.Record, bool) {
	if snap == nil {
		return domain.Record{}, false
	}
	for _, id := range candidates {
		if rec, ok := snap.byID[strings.ToLower(id)]; ok {
			return rec, true
		}
	}
	return domain.Record{}, false
}
