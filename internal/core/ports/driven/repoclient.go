package driven

import (
	"context"
	"time"
)

// DirEntry is one entry of a repository directory listing.
type DirEntry struct {
	// Name is the base name of the entry.
	Name string

	// Path is the repository-relative path.
	Path string

	// IsFile is false for subdirectories.
	IsFile bool

	// DownloadURL is the raw-content URL for files, empty for directories.
	DownloadURL string
}

// ChangeRequestState is the lifecycle state of a change request.
type ChangeRequestState string

const (
	ChangeRequestOpen   ChangeRequestState = "open"
	ChangeRequestClosed ChangeRequestState = "closed"
	ChangeRequestMerged ChangeRequestState = "merged"
)

// ChangeRequest is the metadata of one change request (pull request)
// against the tracked repository.
type ChangeRequest struct {
	Number    int
	Title     string
	Body      string
	Author    string
	State     ChangeRequestState
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time

	// MergedAt is zero unless State is ChangeRequestMerged.
	MergedAt time.Time
}

// FileChangeType describes how a change request touched a file.
type FileChangeType string

const (
	FileAdded    FileChangeType = "added"
	FileModified FileChangeType = "modified"
	FileRenamed  FileChangeType = "renamed"
	FileRemoved  FileChangeType = "removed"
)

// ChangedFile is one file touched by a change request.
type ChangedFile struct {
	Path       string
	ChangeType FileChangeType

	// RawURL points at the file content on the change-request head.
	RawURL string
}

// RepositoryClient is a read-only client for the hosted repository.
// All calls are bounded by the context and may be rate limited; callers
// must treat per-item failures as skippable.
type RepositoryClient interface {
	// ListDirectory lists the entries of a repository directory.
	ListDirectory(ctx context.Context, path string) ([]DirEntry, error)

	// FetchBytes downloads raw file content. The URL is either a
	// DownloadURL/RawURL from a listing or a repository-relative path.
	FetchBytes(ctx context.Context, url string) ([]byte, error)

	// ListChangeRequests lists all change requests, open and closed.
	ListChangeRequests(ctx context.Context) ([]ChangeRequest, error)

	// ListChangedFiles lists the files touched by a change request.
	ListChangedFiles(ctx context.Context, number int) ([]ChangedFile, error)

	// BrowseURL returns a human-readable URL for a repository path.
	BrowseURL(path string) string

	// PullRequestURL returns a human-readable URL for a change request.
	PullRequestURL(number int) string
}
