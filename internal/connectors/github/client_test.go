package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sipdex/sipdex/internal/core/domain"
	"github.com/sipdex/sipdex/internal/core/ports/driven"
)

// newTestClient points a client at a test server and disables the
// proactive throttle so tests run at full speed.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewClient(Config{Owner: "sipdex", Repo: "sips", Branch: "main"})
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	c.gh.BaseURL = base
	c.rateLimiter.bucket = rate.NewLimiter(rate.Inf, 1)
	return c, server
}

func TestListDirectory(t *testing.T) {
	t.Run("maps files and subdirectories", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/sipdex/sips/contents/sips", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "main", r.URL.Query().Get("ref"))
			fmt.Fprint(w, `[
				{"name":"sip-001.md","path":"sips/sip-001.md","type":"file","download_url":"https://raw.example/sip-001.md"},
				{"name":"archive","path":"sips/archive","type":"dir"}
			]`)
		})
		c, _ := newTestClient(t, mux)

		entries, err := c.ListDirectory(context.Background(), "sips")
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, driven.DirEntry{
			Name:        "sip-001.md",
			Path:        "sips/sip-001.md",
			IsFile:      true,
			DownloadURL: "https://raw.example/sip-001.md",
		}, entries[0])
		assert.False(t, entries[1].IsFile)
	})

	t.Run("rejects a file path", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/sipdex/sips/contents/sips/sip-001.md", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"name":"sip-001.md","path":"sips/sip-001.md","type":"file"}`)
		})
		c, _ := newTestClient(t, mux)

		_, err := c.ListDirectory(context.Background(), "sips/sip-001.md")
		assert.ErrorContains(t, err, "path is a file")
	})

	t.Run("maps 404 onto the domain taxonomy", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
		})
		c, _ := newTestClient(t, mux)

		_, err := c.ListDirectory(context.Background(), "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.True(t, IsNotFound(err))
	})
}

func TestFetchBytes(t *testing.T) {
	t.Run("downloads from an absolute URL", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/raw/sip-001.md", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "# SIP 1")
		})
		c, server := newTestClient(t, mux)

		body, err := c.FetchBytes(context.Background(), server.URL+"/raw/sip-001.md")
		require.NoError(t, err)
		assert.Equal(t, "# SIP 1", string(body))
	})

	t.Run("resolves a repository-relative path", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte("# SIP 2"))
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/sipdex/sips/contents/sips/sip-002.md", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprintf(w, `{"type":"file","encoding":"base64","content":%q}`, encoded)
		})
		c, _ := newTestClient(t, mux)

		body, err := c.FetchBytes(context.Background(), "sips/sip-002.md")
		require.NoError(t, err)
		assert.Equal(t, "# SIP 2", string(body))
	})

	t.Run("surfaces rate limiting on raw downloads", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/raw/sip-001.md", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set(HeaderRateRemaining, "0")
			w.Header().Set(HeaderRetryAfter, "60")
			w.WriteHeader(http.StatusTooManyRequests)
		})
		c, server := newTestClient(t, mux)

		_, err := c.FetchBytes(context.Background(), server.URL+"/raw/sip-001.md")
		require.Error(t, err)
		assert.True(t, IsRateLimited(err))

		var rlErr *RateLimitError
		require.True(t, errors.As(err, &rlErr))
		assert.WithinDuration(t, time.Now().Add(time.Minute), rlErr.ResetAt, 5*time.Second)
	})

	t.Run("non-200 raw response is an API error", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/raw/gone.md", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		c, server := newTestClient(t, mux)

		_, err := c.FetchBytes(context.Background(), server.URL+"/raw/gone.md")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestListChangeRequests(t *testing.T) {
	t.Run("paginates and maps states", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/sipdex/sips/pulls", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "all", r.URL.Query().Get("state"))
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `[
					{"number":1,"title":"SIP-001: Genesis","state":"closed",
					 "merged_at":"2024-01-02T00:00:00Z",
					 "created_at":"2024-01-01T00:00:00Z","updated_at":"2024-01-02T00:00:00Z",
					 "user":{"login":"alice"},"html_url":"https://github.com/sipdex/sips/pull/1"}
				]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/repos/sipdex/sips/pulls?page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[
				{"number":2,"title":"SIP-002: Treasury","state":"open",
				 "created_at":"2024-02-01T00:00:00Z","updated_at":"2024-02-03T00:00:00Z",
				 "user":{"login":"bob"},"html_url":"https://github.com/sipdex/sips/pull/2"},
				{"number":3,"title":"Fix typo","state":"closed",
				 "created_at":"2024-02-05T00:00:00Z","updated_at":"2024-02-06T00:00:00Z",
				 "user":{"login":"carol"}}
			]`)
		})
		c, _ := newTestClient(t, mux)

		crs, err := c.ListChangeRequests(context.Background())
		require.NoError(t, err)
		require.Len(t, crs, 3)

		assert.Equal(t, driven.ChangeRequestOpen, crs[0].State)
		assert.Equal(t, "bob", crs[0].Author)
		assert.Equal(t, driven.ChangeRequestClosed, crs[1].State)
		assert.True(t, crs[1].MergedAt.IsZero())

		merged := crs[2]
		assert.Equal(t, driven.ChangeRequestMerged, merged.State)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), merged.MergedAt)
	})
}

func TestListChangedFiles(t *testing.T) {
	t.Run("maps change statuses", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/sipdex/sips/pulls/7/files", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `[
				{"filename":"sips/sip-007.md","status":"added","raw_url":"https://raw.example/sip-007.md"},
				{"filename":"README.md","status":"modified"},
				{"filename":"sips/old.md","status":"removed"},
				{"filename":"sips/new-name.md","status":"renamed"}
			]`)
		})
		c, _ := newTestClient(t, mux)

		files, err := c.ListChangedFiles(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, files, 4)

		assert.Equal(t, driven.FileAdded, files[0].ChangeType)
		assert.Equal(t, "https://raw.example/sip-007.md", files[0].RawURL)
		assert.Equal(t, driven.FileModified, files[1].ChangeType)
		assert.Equal(t, driven.FileRemoved, files[2].ChangeType)
		assert.Equal(t, driven.FileRenamed, files[3].ChangeType)
	})
}

func TestURLBuilders(t *testing.T) {
	c := NewClient(Config{Owner: "sipdex", Repo: "sips"})

	assert.Equal(t, "https://github.com/sipdex/sips/blob/main/sips/sip-001.md",
		c.BrowseURL("sips/sip-001.md"))
	assert.Equal(t, "https://github.com/sipdex/sips/pull/42", c.PullRequestURL(42))
}

func TestNewClient_Timeout(t *testing.T) {
	t.Run("configured timeout is applied to the HTTP client", func(t *testing.T) {
		c := NewClient(Config{Owner: "sipdex", Repo: "sips", Timeout: 5 * time.Second})
		assert.Equal(t, 5*time.Second, c.raw.Timeout)
	})

	t.Run("authenticated client keeps the configured timeout", func(t *testing.T) {
		c := NewClient(Config{Owner: "sipdex", Repo: "sips", Token: "tok", Timeout: 5 * time.Second})
		assert.Equal(t, 5*time.Second, c.raw.Timeout)
	})

	t.Run("zero falls back to the default", func(t *testing.T) {
		c := NewClient(Config{Owner: "sipdex", Repo: "sips"})
		assert.Equal(t, DefaultTimeout, c.raw.Timeout)
	})
}

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	r := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "42")
	resp.Header.Set(HeaderRateLimit, "60")
	resp.Header.Set(HeaderRateReset, "1700000000")

	r.UpdateFromResponse(resp)

	assert.Equal(t, 42, r.Remaining())
	assert.Equal(t, 60, r.Limit())
	assert.Equal(t, time.Unix(1700000000, 0), r.ResetTime())
}

func TestRateLimiter_CheckRateLimit(t *testing.T) {
	t.Run("healthy response", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{StatusCode: 200, Header: http.Header{}}
		assert.NoError(t, r.CheckRateLimit(resp))
	})

	t.Run("exhausted 403", func(t *testing.T) {
		r := NewRateLimiter()
		resp := &http.Response{StatusCode: 403, Header: http.Header{}}
		resp.Header.Set(HeaderRateRemaining, "0")

		err := r.CheckRateLimit(resp)
		require.Error(t, err)
		assert.True(t, IsRateLimited(err))
	})
}
