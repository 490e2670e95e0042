// Package merge reduces the records gathered from every source to one
// record per canonical id. The reduction is commutative and idempotent:
// fetchers may complete in any order without changing the result.
package merge

import (
	"sort"
	"strings"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// Merge groups records by canonical id (case-insensitive), reduces each
// group by source precedence, and returns the result in display order.
func Merge(records []domain.Record) []domain.Record {
	groups := make(map[string][]domain.Record)
	for _, rec := range records {
		key := strings.ToLower(rec.ID)
		groups[key] = append(groups[key], rec)
	}

	merged := make([]domain.Record, 0, len(groups))
	for _, group := range groups {
		merged = append(merged, reduce(group))
	}

	Sort(merged)
	return merged
}

// reduce folds a group of same-id records into one. The winner is the
// highest-precedence record; the rest contribute field-level backfill.
func reduce(group []domain.Record) domain.Record {
	// Absorb in total order so backfill does not depend on which
	// fetcher happened to finish first.
	sorted := append([]domain.Record(nil), group...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return wins(sorted[i], sorted[j])
	})

	out := sorted[0]
	for _, rec := range sorted[1:] {
		out = absorb(out, rec)
	}

	// Withdrawal is terminal and authoritative: when records from more
	// than one source meet, a withdrawn-folder member forces the merged
	// status even if that member won with a contradictory header status.
	if len(sorted) > 1 {
		for _, rec := range sorted {
			if rec.SourceKind == domain.SourceWithdrawnFolder {
				out.Status = domain.StatusWithdrawn
				break
			}
		}
	}

	// A merged change request promotes a draft, but a terminal status
	// is never downgraded or re-derived.
	if !out.MergedAt.IsZero() && !out.Status.IsTerminal() {
		if out.Status == domain.StatusDraft || out.Status == domain.StatusDraftNoFile {
			out.Status = domain.StatusAccepted
		}
	}

	return out
}

// wins reports whether a should replace b as the group winner. The
// comparison is a total order so reduction stays order-independent:
// precedence first, then activity recency, then change-request number
// and path as stable tiebreaks.
func wins(a, b domain.Record) bool {
	pa, pb := a.SourceKind.Precedence(), b.SourceKind.Precedence()
	if pa != pb {
		return pa > pb
	}
	if la, lb := a.LastActivity(), b.LastActivity(); !la.Equal(lb) {
		return la.After(lb)
	}
	if a.ChangeRequestNumber != b.ChangeRequestNumber {
		return a.ChangeRequestNumber > b.ChangeRequestNumber
	}
	return a.SourcePath < b.SourcePath
}

// absorb merges one contributing record into the winning view,
// applying the field-level merge rules.
func absorb(out, rec domain.Record) domain.Record {
	// Body and summary backfill from any record with real content.
	if out.Body == "" && rec.Body != "" {
		out.Body = rec.Body
	}
	if !hasRealSummary(out) && hasRealSummary(rec) {
		out.Summary = rec.Summary
		out.Structured = rec.Structured
	}

	// Provenance must not look younger than it is.
	if !rec.CreatedAt.IsZero() && (out.CreatedAt.IsZero() || rec.CreatedAt.Before(out.CreatedAt)) {
		out.CreatedAt = rec.CreatedAt
	}
	if rec.UpdatedAt.After(out.UpdatedAt) {
		out.UpdatedAt = rec.UpdatedAt
	}
	if rec.MergedAt.After(out.MergedAt) {
		out.MergedAt = rec.MergedAt
	}

	if out.Author == "" {
		out.Author = rec.Author
	}
	if out.ChangeRequestNumber == 0 {
		out.ChangeRequestNumber = rec.ChangeRequestNumber
	}
	if out.Title == "" {
		out.Title = rec.Title
	}
	if out.OriginURL == "" {
		out.OriginURL = rec.OriginURL
	}
	if out.SourcePath == "" {
		out.SourcePath = rec.SourcePath
	}

	return out
}

// hasRealSummary reports whether the record carries a summary beyond
// the fallback sentinel.
func hasRealSummary(r domain.Record) bool {
	return r.Summary != "" && r.Summary != domain.FallbackSummary
}

// Sort orders records for display: numeric ids descending (generic
// slug ids after all numeric ones), then status rank, then most recent
// activity, then id.
func Sort(records []domain.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]

		na, aok := domain.NumericID(a.ID)
		nb, bok := domain.NumericID(b.ID)
		if aok != bok {
			return aok
		}
		if aok && na != nb {
			return na > nb
		}

		if ra, rb := a.Status.Rank(), b.Status.Rank(); ra != rb {
			return ra < rb
		}
		if la, lb := a.LastActivity(), b.LastActivity(); !la.Equal(lb) {
			return la.After(lb)
		}
		return a.ID < b.ID
	})
}
