package resolvers

import (
	"strconv"
	"strings"
)

// OriginInput carries the signals the origin-URL chain may use.
// Browse and PullRequestURL construct repository URLs; the fetchers
// supply them from the repository client so this package stays free of
// transport concerns.
type OriginInput struct {
	Header           map[string]string
	ChangeRequestURL string
	SourcePath       string

	Browse         func(path string) string
	PullRequestURL func(number int) string
}

// headerLinkKeys are the front-matter fields that may carry an explicit
// link, in lookup order.
var headerLinkKeys = []string{"discussions-to", "discussion", "url", "link"}

// headerPRKeys are the front-matter fields that may carry a numeric
// change-request reference.
var headerPRKeys = []string{"pr", "pull-request", "pull_request", "pull"}

// ResolveOriginURL derives the human-readable source link: an explicit
// header link, then a numeric change-request reference from the header,
// then the change-request URL, then a constructed browse URL to the file.
func ResolveOriginURL(in OriginInput) string {
	for _, key := range headerLinkKeys {
		if v := strings.TrimSpace(in.Header[key]); strings.HasPrefix(v, "http") {
			return v
		}
	}

	if in.PullRequestURL != nil {
		for _, key := range headerPRKeys {
			v := strings.TrimSpace(strings.TrimPrefix(in.Header[key], "#"))
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return in.PullRequestURL(n)
			}
		}
	}

	if in.ChangeRequestURL != "" {
		return in.ChangeRequestURL
	}

	if in.Browse != nil && in.SourcePath != "" {
		return in.Browse(in.SourcePath)
	}
	return ""
}
