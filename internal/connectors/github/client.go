package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/sipdex/sipdex/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultBranch is used when the config leaves the branch empty.
const DefaultBranch = "main"

// Config identifies the tracked repository.
type Config struct {
	Owner  string
	Repo   string
	Branch string

	// Token is an optional personal access token. Unauthenticated
	// clients work against public repositories at the lower quota.
	Token string

	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// Client is a read-only GitHub client for one repository. It wraps
// go-github behind the RepositoryClient port and throttles every call
// through a shared rate limiter.
type Client struct {
	cfg         Config
	gh          *gh.Client
	raw         *http.Client
	rateLimiter *RateLimiter
}

var _ driven.RepositoryClient = (*Client)(nil)

// NewClient creates a client for the configured repository.
func NewClient(cfg Config) *Client {
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	hc := &http.Client{Timeout: cfg.Timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		hc = oauth2.NewClient(context.Background(), ts)
		hc.Timeout = cfg.Timeout
	}

	return &Client{
		cfg:         cfg,
		gh:          gh.NewClient(hc),
		raw:         hc,
		rateLimiter: NewRateLimiter(),
	}
}

// ListDirectory lists one level of a repository directory.
func (c *Client) ListDirectory(ctx context.Context, path string) ([]driven.DirEntry, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: c.cfg.Branch}
	file, dir, resp, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, path, opts)
	if err != nil {
		return nil, wrapError(err, "list directory "+path)
	}
	c.updateRateLimitFromResponse(resp)

	if file != nil {
		return nil, fmt.Errorf("list directory %s: path is a file", path)
	}

	entries := make([]driven.DirEntry, 0, len(dir))
	for _, e := range dir {
		entries = append(entries, driven.DirEntry{
			Name:        e.GetName(),
			Path:        e.GetPath(),
			IsFile:      e.GetType() == "file",
			DownloadURL: e.GetDownloadURL(),
		})
	}
	return entries, nil
}

// FetchBytes downloads raw file content. The argument is either an
// absolute download URL from a prior listing or a repository-relative
// path resolved against the configured branch.
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return c.fetchByPath(ctx, url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	resp, err := c.raw.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: resp.Status, URL: url}
	}

	return io.ReadAll(resp.Body)
}

// fetchByPath fetches file content through the contents API, which
// base64-encodes files under 1MB. Proposal documents stay well below
// that bound.
func (c *Client) fetchByPath(ctx context.Context, path string) ([]byte, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: c.cfg.Branch}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, c.cfg.Owner, c.cfg.Repo, path, opts)
	if err != nil {
		return nil, wrapError(err, "fetch "+path)
	}
	c.updateRateLimitFromResponse(resp)

	if file == nil {
		return nil, fmt.Errorf("fetch %s: path is a directory", path)
	}
	decoded, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: decode content: %w", path, err)
	}
	return []byte(decoded), nil
}

// ListChangeRequests lists every pull request against the repository,
// open and closed, newest first.
func (c *Client) ListChangeRequests(ctx context.Context) ([]driven.ChangeRequest, error) {
	opts := &gh.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	var all []driven.ChangeRequest
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		prs, resp, err := c.gh.PullRequests.List(ctx, c.cfg.Owner, c.cfg.Repo, opts)
		if err != nil {
			return nil, wrapError(err, "list pull requests")
		}
		c.updateRateLimitFromResponse(resp)

		for _, pr := range prs {
			all = append(all, toChangeRequest(pr))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListChangedFiles lists the files touched by one pull request.
func (c *Client) ListChangedFiles(ctx context.Context, number int) ([]driven.ChangedFile, error) {
	opts := &gh.ListOptions{PerPage: 100}

	var all []driven.ChangedFile
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		files, resp, err := c.gh.PullRequests.ListFiles(ctx, c.cfg.Owner, c.cfg.Repo, number, opts)
		if err != nil {
			return nil, wrapError(err, fmt.Sprintf("list files for pull request %d", number))
		}
		c.updateRateLimitFromResponse(resp)

		for _, f := range files {
			all = append(all, driven.ChangedFile{
				Path:       f.GetFilename(),
				ChangeType: toFileChangeType(f.GetStatus()),
				RawURL:     f.GetRawURL(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// BrowseURL returns the human-readable URL for a repository path.
func (c *Client) BrowseURL(path string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, path)
}

// PullRequestURL returns the human-readable URL for a pull request.
func (c *Client) PullRequestURL(number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/pull/%d", c.cfg.Owner, c.cfg.Repo, number)
}

// RateLimiter returns the rate limiter for external inspection.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from GitHub response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

func toChangeRequest(pr *gh.PullRequest) driven.ChangeRequest {
	state := driven.ChangeRequestState(pr.GetState())
	if pr.MergedAt != nil {
		state = driven.ChangeRequestMerged
	}

	cr := driven.ChangeRequest{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		Body:      pr.GetBody(),
		Author:    pr.GetUser().GetLogin(),
		State:     state,
		URL:       pr.GetHTMLURL(),
		CreatedAt: pr.GetCreatedAt().Time,
		UpdatedAt: pr.GetUpdatedAt().Time,
	}
	if pr.MergedAt != nil {
		cr.MergedAt = pr.GetMergedAt().Time
	}
	return cr
}

func toFileChangeType(status string) driven.FileChangeType {
	switch status {
	case "added", "copied":
		return driven.FileAdded
	case "renamed":
		return driven.FileRenamed
	case "removed":
		return driven.FileRemoved
	default:
		return driven.FileModified
	}
}
