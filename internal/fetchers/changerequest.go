package fetchers

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
	"github.com/sipdex/sipdex/internal/logger"
	"github.com/sipdex/sipdex/internal/parser"
)

// DefaultConcurrency bounds per-change-request file fetches so a large
// backlog does not hammer the upstream rate limit.
const DefaultConcurrency = 5

// Ensure ChangeRequestFetcher implements the interface.
var _ driven.SourceFetcher = (*ChangeRequestFetcher)(nil)

// ChangeRequestFetcher lists all change requests and parses the
// proposal documents they touch. It always emits one placeholder record
// per change request, even when a document is also found, so every
// request stays discoverable before its document lands in a folder.
type ChangeRequestFetcher struct {
	client      driven.RepositoryClient
	parser      *parser.Parser
	trackedDirs []string
	concurrency int
}

// NewChangeRequestFetcher creates the change-request fetcher.
// trackedDirs are the repository directories whose markdown files count
// as proposal documents. concurrency <= 0 selects DefaultConcurrency.
func NewChangeRequestFetcher(
	client driven.RepositoryClient, p *parser.Parser, trackedDirs []string, concurrency int,
) *ChangeRequestFetcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &ChangeRequestFetcher{
		client:      client,
		parser:      p,
		trackedDirs: trackedDirs,
		concurrency: concurrency,
	}
}

// Name identifies the fetcher in logs.
func (f *ChangeRequestFetcher) Name() string {
	return "change-requests"
}

// Fetch lists open and closed change requests and produces their
// records. Only the top-level listing can fail the fetcher.
func (f *ChangeRequestFetcher) Fetch(ctx context.Context) ([]domain.Record, error) {
	crs, err := f.client.ListChangeRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list change requests: %w", err)
	}

	var (
		mu      sync.Mutex
		records []domain.Record
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.concurrency)

	for _, cr := range crs {
		g.Go(func() error {
			recs := f.fetchOne(gctx, cr)
			mu.Lock()
			records = append(records, recs...)
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors; per-request failures are skips.
	_ = g.Wait()

	logger.Debug("%s: %d records from %d change requests", f.Name(), len(records), len(crs))
	return records, nil
}

// fetchOne produces the records of a single change request: its
// placeholder plus any parsed documents.
func (f *ChangeRequestFetcher) fetchOne(ctx context.Context, cr driven.ChangeRequest) []domain.Record {
	records := []domain.Record{f.parser.Placeholder(ctx, cr)}

	files, err := f.client.ListChangedFiles(ctx, cr.Number)
	if err != nil {
		logger.Warn("%s: skipping files of #%d: %v", f.Name(), cr.Number, err)
		return records
	}

	for _, file := range files {
		if !f.isTrackedDocument(file) {
			continue
		}
		rec, err := f.parseFile(ctx, cr, file)
		if err != nil {
			if !errors.Is(err, domain.ErrNotDistinctProposal) {
				logger.Warn("%s: skipping %s of #%d: %v", f.Name(), file.Path, cr.Number, err)
			}
			continue
		}
		records = append(records, *rec)
	}

	return records
}

// isTrackedDocument keeps markdown files under the tracked directories,
// excluding removals.
func (f *ChangeRequestFetcher) isTrackedDocument(file driven.ChangedFile) bool {
	if file.ChangeType == driven.FileRemoved {
		return false
	}
	if !isCandidateFile(file.Path) {
		return false
	}
	for _, dir := range f.trackedDirs {
		if strings.HasPrefix(file.Path, strings.TrimSuffix(dir, "/")+"/") {
			return true
		}
	}
	return false
}

func (f *ChangeRequestFetcher) parseFile(
	ctx context.Context, cr driven.ChangeRequest, file driven.ChangedFile,
) (*domain.Record, error) {
	raw, err := f.client.FetchBytes(ctx, file.RawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	return f.parser.Parse(ctx, parser.Input{
		Raw:            raw,
		SourceKind:     domain.SourceChangeRequestDocument,
		SourcePath:     file.Path,
		FileName:       path.Base(file.Path),
		ChangeRequest:  &cr,
		Browse:         f.client.BrowseURL,
		PullRequestURL: f.client.PullRequestURL,
	})
}
