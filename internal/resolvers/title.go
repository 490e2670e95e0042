package resolvers

import (
	"fmt"
	"strings"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// TitleInput carries the signals the title chain may use.
type TitleInput struct {
	HeaderTitle        string
	ChangeRequestTitle string

	// ID is the already-resolved canonical id, used for the synthesized
	// fallback.
	ID string
}

// ResolveTitle derives the display title: front-matter title, then the
// change-request title, then a synthesized "SIP <number>", then the id
// itself.
func ResolveTitle(in TitleInput) string {
	if t := strings.TrimSpace(in.HeaderTitle); t != "" {
		return t
	}
	if t := strings.TrimSpace(in.ChangeRequestTitle); t != "" {
		return t
	}
	if n, ok := domain.NumericID(in.ID); ok {
		return fmt.Sprintf("SIP %d", n)
	}
	return in.ID
}
