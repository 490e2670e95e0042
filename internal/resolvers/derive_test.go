package resolvers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolveTitle tests the title fallback chain
func TestResolveTitle(t *testing.T) {
	assert.Equal(t, "Treasury Upgrade", ResolveTitle(TitleInput{
		HeaderTitle:        "Treasury Upgrade",
		ChangeRequestTitle: "SIP-12: x",
		ID:                 "sip-012",
	}))

	assert.Equal(t, "SIP-12: x", ResolveTitle(TitleInput{
		ChangeRequestTitle: "SIP-12: x",
		ID:                 "sip-012",
	}))

	assert.Equal(t, "SIP 12", ResolveTitle(TitleInput{ID: "sip-012"}))

	assert.Equal(t, "sip-generic-notes", ResolveTitle(TitleInput{ID: "sip-generic-notes"}))
}

// TestResolveOriginURL tests the origin-URL fallback chain
func TestResolveOriginURL(t *testing.T) {
	browse := func(path string) string {
		return "https://example.com/blob/main/" + path
	}
	prURL := func(n int) string {
		return fmt.Sprintf("https://example.com/pull/%d", n)
	}

	// Explicit header link wins.
	got := ResolveOriginURL(OriginInput{
		Header:           map[string]string{"discussions-to": "https://forum.example.com/t/12"},
		ChangeRequestURL: "https://example.com/pull/45",
		SourcePath:       "sips/sip-12.md",
		Browse:           browse,
		PullRequestURL:   prURL,
	})
	assert.Equal(t, "https://forum.example.com/t/12", got)

	// Numeric PR reference in the header.
	got = ResolveOriginURL(OriginInput{
		Header:         map[string]string{"pr": "#33"},
		SourcePath:     "sips/sip-12.md",
		Browse:         browse,
		PullRequestURL: prURL,
	})
	assert.Equal(t, "https://example.com/pull/33", got)

	// Change-request URL.
	got = ResolveOriginURL(OriginInput{
		Header:           map[string]string{},
		ChangeRequestURL: "https://example.com/pull/45",
		SourcePath:       "sips/sip-12.md",
		Browse:           browse,
	})
	assert.Equal(t, "https://example.com/pull/45", got)

	// Constructed browse URL as the last resort.
	got = ResolveOriginURL(OriginInput{
		Header:     map[string]string{},
		SourcePath: "sips/sip-12.md",
		Browse:     browse,
	})
	assert.Equal(t, "https://example.com/blob/main/sips/sip-12.md", got)
}

// TestResolveOriginURL_NonLinkHeaderIgnored tests that non-URL header
// values do not satisfy the explicit-link rule
func TestResolveOriginURL_NonLinkHeaderIgnored(t *testing.T) {
	got := ResolveOriginURL(OriginInput{
		Header:           map[string]string{"url": "n/a"},
		ChangeRequestURL: "https://example.com/pull/45",
	})
	assert.Equal(t, "https://example.com/pull/45", got)
}
