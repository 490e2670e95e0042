package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// IDPrefix is the prefix of canonical numeric proposal identifiers.
const IDPrefix = "sip-"

// GenericIDPrefix is the prefix of slug-based identifiers assigned to
// folder documents that carry no numeric signal.
const GenericIDPrefix = "sip-generic-"

// FallbackSummary is the fixed sentinel used when the summariser has
// too little input or fails. It is never empty so consumers can rely
// on Summary being populated.
const FallbackSummary = "Insufficient information to summarize this proposal."

// EpochSentinel is the creation timestamp assigned to folder documents
// with no date header. It deliberately predates everything real so a
// missing date never inflates freshness.
var EpochSentinel = time.Unix(0, 0).UTC()

// StructuredSummary is the three-part summary produced by the summariser.
type StructuredSummary struct {
	WhatItIs      string `json:"what_it_is"`
	WhatItChanges string `json:"what_it_changes"`
	WhyItMatters  string `json:"why_it_matters"`
}

// Record is one reconciled view of a proposal. The same shape is used
// for raw per-source records and for the merged result; the merge
// engine guarantees exactly one record per canonical id in its output.
type Record struct {
	// ID is the canonical identifier, e.g. "sip-003" or a
	// "sip-generic-" slug. Never empty.
	ID string

	// Title is the human-readable title.
	Title string

	// Status is the reconciled lifecycle status.
	Status Status

	// Summary is a short human-readable description. Never empty;
	// falls back to FallbackSummary.
	Summary string

	// Structured is the three-part structured summary.
	Structured StructuredSummary

	// Body is the full free-text content. Empty for placeholder records.
	Body string

	// OriginURL links to the human-readable source.
	OriginURL string

	// SourceKind identifies the source that produced the record.
	SourceKind SourceKind

	// CreatedAt is always set; EpochSentinel when the source carried
	// no date. UpdatedAt and MergedAt are zero when absent.
	CreatedAt time.Time
	UpdatedAt time.Time
	MergedAt  time.Time

	// Author is the document author or change-request submitter.
	// Empty when unknown.
	Author string

	// ChangeRequestNumber is the originating change-request number,
	// zero when the record did not come from a change request.
	ChangeRequestNumber int

	// SourcePath is the repository path of the document, empty for
	// placeholder records.
	SourcePath string
}

// FormatID renders a proposal number as a canonical id, zero-padded
// to three digits ("sip-007"). Numbers above 999 keep their width.
func FormatID(n int) string {
	return fmt.Sprintf("%s%03d", IDPrefix, n)
}

var numericIDPattern = regexp.MustCompile(`^sip-(\d+)$`)

// NumericID extracts the numeric portion of a canonical id.
// Generic slug ids report ok=false.
func NumericID(id string) (int, bool) {
	if strings.HasPrefix(id, GenericIDPrefix) {
		return 0, false
	}
	m := numericIDPattern.FindStringSubmatch(strings.ToLower(id))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LastActivity returns the most recent of MergedAt, UpdatedAt and
// CreatedAt, used as the freshness tiebreak when sorting.
func (r Record) LastActivity() time.Time {
	t := r.CreatedAt
	if r.UpdatedAt.After(t) {
		t = r.UpdatedAt
	}
	if r.MergedAt.After(t) {
		t = r.MergedAt
	}
	return t
}
