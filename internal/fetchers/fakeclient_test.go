package fetchers

import (
	"context"
	"fmt"

	"github.com/sipdex/sipdex/internal/core/ports/driven"
)

// fakeClient is an in-memory RepositoryClient for fetcher tests.
type fakeClient struct {
	dirs         map[string][]driven.DirEntry
	files        map[string][]byte
	requests     []driven.ChangeRequest
	changedFiles map[int][]driven.ChangedFile

	listDirErr       error
	listRequestsErr  error
	changedFilesErrs map[int]error
	fetchErrs        map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		dirs:             map[string][]driven.DirEntry{},
		files:            map[string][]byte{},
		changedFiles:     map[int][]driven.ChangedFile{},
		changedFilesErrs: map[int]error{},
		fetchErrs:        map[string]error{},
	}
}

func (c *fakeClient) ListDirectory(_ context.Context, path string) ([]driven.DirEntry, error) {
	if c.listDirErr != nil {
		return nil, c.listDirErr
	}
	return c.dirs[path], nil
}

func (c *fakeClient) FetchBytes(_ context.Context, url string) ([]byte, error) {
	if err := c.fetchErrs[url]; err != nil {
		return nil, err
	}
	raw, ok := c.files[url]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", url)
	}
	return raw, nil
}

func (c *fakeClient) ListChangeRequests(_ context.Context) ([]driven.ChangeRequest, error) {
	if c.listRequestsErr != nil {
		return nil, c.listRequestsErr
	}
	return c.requests, nil
}

func (c *fakeClient) ListChangedFiles(_ context.Context, number int) ([]driven.ChangedFile, error) {
	if err := c.changedFilesErrs[number]; err != nil {
		return nil, err
	}
	return c.changedFiles[number], nil
}

func (c *fakeClient) BrowseURL(path string) string {
	return "https://example.com/blob/main/" + path
}

func (c *fakeClient) PullRequestURL(number int) string {
	return fmt.Sprintf("https://example.com/pull/%d", number)
}
