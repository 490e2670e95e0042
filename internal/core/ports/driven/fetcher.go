package driven

import (
	"context"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// SourceFetcher produces the raw records of one source (a document
// folder or the change-request stream).
type SourceFetcher interface {
	// Name identifies the fetcher in logs.
	Name() string

	// Fetch lists and parses the source's candidate documents. A
	// non-nil error means the source degraded to an empty list; it is
	// never fatal to the reconciliation.
	Fetch(ctx context.Context) ([]domain.Record, error)
}
