// Package fetchers lists candidate proposal documents from each source
// and feeds them through the parser. Per-document failures are skipped;
// only a failure to list the top-level candidate set degrades a whole
// source to an empty list.
package fetchers

import (
	"path"
	"strings"
)

// isCandidateFile reports whether a file name looks like a proposal
// document: markdown, and not a template.
func isCandidateFile(name string) bool {
	lower := strings.ToLower(path.Base(name))
	if !strings.HasSuffix(lower, ".md") && !strings.HasSuffix(lower, ".markdown") {
		return false
	}
	if strings.Contains(lower, "template") {
		return false
	}
	return lower != "readme.md" && lower != "contributing.md"
}
