package resolvers

import (
	"strings"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// StatusInput carries the signals the status chain may use.
type StatusInput struct {
	// Explicit is the raw front-matter status field, possibly empty or
	// invalid.
	Explicit string

	SourceKind domain.SourceKind

	// FolderDefault is the fetcher-supplied default for folder sources
	// (Final for the accepted folder, Withdrawn for the withdrawn one).
	FolderDefault domain.Status

	// Change-request state, meaningful only for change-request sources.
	Open             bool
	Merged           bool
	WithdrawnKeyword bool
}

// ResolveStatus derives the lifecycle status. Rules in order: a valid
// explicit field wins; folder sources fall back to the fetcher default;
// change-request sources derive from the request state.
func ResolveStatus(in StatusInput) domain.Status {
	if st, ok := domain.ParseStatus(in.Explicit); ok {
		return st
	}

	switch in.SourceKind {
	case domain.SourceAcceptedFolder, domain.SourceWithdrawnFolder:
		if in.FolderDefault != "" {
			return in.FolderDefault
		}
		return domain.StatusDraft
	}

	// Change-request sources.
	switch {
	case in.Merged:
		return domain.StatusAccepted
	case !in.Open && in.WithdrawnKeyword:
		return domain.StatusWithdrawn
	case !in.Open:
		return domain.StatusClosedUnmerged
	case in.SourceKind == domain.SourceChangeRequestPlaceholder:
		return domain.StatusDraftNoFile
	default:
		return domain.StatusDraft
	}
}

// HasWithdrawnKeyword reports whether a change-request title or body
// signals an explicit withdrawal.
func HasWithdrawnKeyword(title, body string) bool {
	for _, s := range []string{title, body} {
		lower := strings.ToLower(s)
		if strings.Contains(lower, "withdrawn") || strings.Contains(lower, "withdraw") {
			return true
		}
	}
	return false
}
