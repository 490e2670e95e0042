package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSnapshot() driven.Snapshot {
	return driven.Snapshot{
		Records: []domain.Record{
			{
				ID:         "sip-001",
				Title:      "SIP 1",
				Status:     domain.StatusFinal,
				Summary:    "Genesis proposal.",
				SourceKind: domain.SourceAcceptedFolder,
				CreatedAt:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				MergedAt:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
				Author:     "alice",
				SourcePath: "sips/sip-001.md",
			},
			{
				ID:         "sip-generic-treasury",
				Title:      "Treasury",
				Status:     domain.StatusDraft,
				Summary:    domain.FallbackSummary,
				SourceKind: domain.SourceChangeRequestDocument,
				CreatedAt:  domain.EpochSentinel,
			},
		},
		AsOf: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestStore_SaveLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := sampleSnapshot()
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	assert.True(t, loaded.AsOf.Equal(snap.AsOf))
	require.Len(t, loaded.Records, 2)
	assert.Equal(t, snap.Records[0], loaded.Records[0])
	assert.Equal(t, snap.Records[1].ID, loaded.Records[1].ID)
	assert.True(t, loaded.Records[1].CreatedAt.Equal(domain.EpochSentinel))
}

func TestStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleSnapshot()))

	replacement := driven.Snapshot{
		Records: []domain.Record{
			{ID: "sip-999", Status: domain.StatusProposed, Summary: "New set.", CreatedAt: domain.EpochSentinel},
		},
		AsOf: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, replacement))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Records, 1)
	assert.Equal(t, "sip-999", loaded.Records[0].ID)
	assert.True(t, loaded.AsOf.Equal(replacement.AsOf))
}

func TestStore_PreservesOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snap := driven.Snapshot{AsOf: time.Now()}
	for _, id := range []string{"sip-010", "sip-003", "sip-generic-zeta", "sip-001"} {
		snap.Records = append(snap.Records, domain.Record{
			ID: id, Status: domain.StatusDraft, Summary: domain.FallbackSummary, CreatedAt: domain.EpochSentinel,
		})
	}
	require.NoError(t, store.Save(ctx, snap))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)

	got := make([]string, len(loaded.Records))
	for i, rec := range loaded.Records {
		got[i] = rec.ID
	}
	assert.Equal(t, []string{"sip-010", "sip-003", "sip-generic-zeta", "sip-001"}, got)
}

func TestStore_SaveEmptySnapshot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, driven.Snapshot{AsOf: time.Now()}))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Records)
}
