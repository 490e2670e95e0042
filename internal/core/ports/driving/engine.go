package driving

import (
	"context"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// Engine is the public surface of the reconciliation engine.
type Engine interface {
	// ListAll returns the reconciled proposal list, refreshing the
	// cache when it is stale or when forceRefresh is set. A pipeline
	// failure yields an empty list, never an error.
	ListAll(ctx context.Context, forceRefresh bool) ([]domain.Record, error)

	// GetByID looks up one proposal. The id is normalised the same way
	// canonical ids are derived, so "7", "07" and "SIP-007" all hit
	// "sip-007". Returns domain.ErrNotFound when no record matches
	// after at most one extra forced reload.
	GetByID(ctx context.Context, id string, forceRefresh bool) (domain.Record, error)
}
