package domain

import "strings"

// Status is the lifecycle status of a proposal. The set is closed:
// anything not listed here is rejected at parse time and replaced by a
// source-derived default.
type Status string

const (
	StatusDraft     Status = "Draft"
	StatusProposed  Status = "Proposed"
	StatusAccepted  Status = "Accepted"
	StatusLive      Status = "Live"
	StatusRejected  Status = "Rejected"
	StatusWithdrawn Status = "Withdrawn"
	StatusArchived  Status = "Archived"
	StatusFinal     Status = "Final"

	// StatusDraftNoFile marks a placeholder record for an open change
	// request that has no proposal document yet.
	StatusDraftNoFile Status = "DraftNoFile"

	// StatusClosedUnmerged marks a change request that was closed
	// without being merged and without a withdrawal signal.
	StatusClosedUnmerged Status = "ClosedUnmerged"
)

// statusAliases maps lowercase spellings to canonical statuses.
// "living" is accepted because older documents use it for Live.
var statusAliases = map[string]Status{
	"draft":          StatusDraft,
	"proposed":       StatusProposed,
	"accepted":       StatusAccepted,
	"live":           StatusLive,
	"living":         StatusLive,
	"rejected":       StatusRejected,
	"withdrawn":      StatusWithdrawn,
	"archived":       StatusArchived,
	"final":          StatusFinal,
	"draftnofile":    StatusDraftNoFile,
	"closedunmerged": StatusClosedUnmerged,
}

// ParseStatus validates a textual status against the closed enum.
// Matching is case-insensitive and tolerant of surrounding whitespace.
func ParseStatus(s string) (Status, bool) {
	st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

// IsTerminal reports whether the status is terminal. A terminal status
// is never downgraded during a reconciliation pass.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusWithdrawn, StatusFinal, StatusArchived:
		return true
	}
	return false
}

// statusRank is the display ordering of statuses. Lower ranks sort first.
var statusRank = map[Status]int{
	StatusLive:           0,
	StatusFinal:          1,
	StatusAccepted:       2,
	StatusProposed:       3,
	StatusDraft:          4,
	StatusDraftNoFile:    5,
	StatusClosedUnmerged: 6,
	StatusWithdrawn:      7,
	StatusRejected:       8,
	StatusArchived:       9,
}

// Rank returns the sort rank of the status. Unknown statuses sort last.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}
