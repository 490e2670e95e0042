package fetchers

import (
	"context"
	"fmt"
	"path"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
	"github.com/sipdex/sipdex/internal/logger"
	"github.com/sipdex/sipdex/internal/parser"
)

// Ensure FolderFetcher implements the interface.
var _ driven.SourceFetcher = (*FolderFetcher)(nil)

// FolderFetcher lists one document folder of the repository. Two
// instances cover the accepted and withdrawn folders, differing only in
// directory, source kind and default status.
type FolderFetcher struct {
	client        driven.RepositoryClient
	parser        *parser.Parser
	dir           string
	kind          domain.SourceKind
	defaultStatus domain.Status
}

// NewAcceptedFolderFetcher fetches the accepted-proposals directory.
func NewAcceptedFolderFetcher(client driven.RepositoryClient, p *parser.Parser, dir string) *FolderFetcher {
	return &FolderFetcher{
		client:        client,
		parser:        p,
		dir:           dir,
		kind:          domain.SourceAcceptedFolder,
		defaultStatus: domain.StatusFinal,
	}
}

// NewWithdrawnFolderFetcher fetches the withdrawn-proposals directory.
func NewWithdrawnFolderFetcher(client driven.RepositoryClient, p *parser.Parser, dir string) *FolderFetcher {
	return &FolderFetcher{
		client:        client,
		parser:        p,
		dir:           dir,
		kind:          domain.SourceWithdrawnFolder,
		defaultStatus: domain.StatusWithdrawn,
	}
}

// Name identifies the fetcher in logs.
func (f *FolderFetcher) Name() string {
	return fmt.Sprintf("folder(%s)", f.dir)
}

// Fetch walks the folder tree and parses every candidate document.
func (f *FolderFetcher) Fetch(ctx context.Context) ([]domain.Record, error) {
	files, err := f.listTree(ctx, f.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.dir, err)
	}

	records := make([]domain.Record, 0, len(files))
	for _, entry := range files {
		rec, err := f.fetchOne(ctx, entry)
		if err != nil {
			logger.Warn("%s: skipping %s: %v", f.Name(), entry.Path, err)
			continue
		}
		records = append(records, *rec)
	}

	logger.Debug("%s: %d records from %d files", f.Name(), len(records), len(files))
	return records, nil
}

// listTree lists candidate files recursively. A failure at the root
// fails the fetcher; a failed subdirectory is skipped.
func (f *FolderFetcher) listTree(ctx context.Context, dir string) ([]driven.DirEntry, error) {
	entries, err := f.client.ListDirectory(ctx, dir)
	if err != nil {
		return nil, err
	}

	var files []driven.DirEntry
	for _, entry := range entries {
		if !entry.IsFile {
			sub, err := f.listTree(ctx, entry.Path)
			if err != nil {
				logger.Warn("%s: skipping subdirectory %s: %v", f.Name(), entry.Path, err)
				continue
			}
			files = append(files, sub...)
			continue
		}
		if isCandidateFile(entry.Name) {
			files = append(files, entry)
		}
	}
	return files, nil
}

func (f *FolderFetcher) fetchOne(ctx context.Context, entry driven.DirEntry) (*domain.Record, error) {
	source := entry.DownloadURL
	if source == "" {
		source = entry.Path
	}
	raw, err := f.client.FetchBytes(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	rec, err := f.parser.Parse(ctx, parser.Input{
		Raw:                 raw,
		SourceKind:          f.kind,
		SourcePath:          entry.Path,
		FileName:            path.Base(entry.Path),
		FolderDefaultStatus: f.defaultStatus,
		Browse:              f.client.BrowseURL,
		PullRequestURL:      f.client.PullRequestURL,
	})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return rec, nil
}
