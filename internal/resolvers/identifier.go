package resolvers

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// IdentifierInput carries every signal the identifier chain may use.
// Header keys are expected lowercased.
type IdentifierInput struct {
	Header              map[string]string
	FileName            string
	ChangeRequestTitle  string
	ChangeRequestNumber int
	SourceKind          domain.SourceKind
}

// identifierRule returns a canonical id, or "" when the rule does not apply.
type identifierRule func(IdentifierInput) string

// identifierRules is the priority chain; first non-empty result wins.
var identifierRules = []identifierRule{
	idFromHeader,
	idFromFileName,
	idFromChangeRequestTitle,
	idFromChangeRequestNumber,
	idFromSlug,
}

// ResolveIdentifier derives the canonical proposal id.
//
// A change-request document with no identifier signal returns
// domain.ErrNotDistinctProposal: a miscellaneous file changed
// incidentally inside a change request must not masquerade as a
// proposal. The change request's placeholder record represents it.
func ResolveIdentifier(in IdentifierInput) (string, error) {
	for _, rule := range identifierRules {
		if id := rule(in); id != "" {
			return id, nil
		}
	}
	if in.SourceKind == domain.SourceChangeRequestDocument {
		return "", domain.ErrNotDistinctProposal
	}
	return "", domain.ErrInvalidInput
}

// headerIDKeys are the front-matter fields that may carry the proposal
// number, in lookup order.
var headerIDKeys = []string{"sip", "sui_ip", "id"}

func idFromHeader(in IdentifierInput) string {
	for _, key := range headerIDKeys {
		if n, ok := numericValue(in.Header[key]); ok {
			return domain.FormatID(n)
		}
	}
	return ""
}

// fileNamePattern matches an optional sip prefix and the digits before
// the extension or next separator, e.g. "sip-12.md", "07_treasury.md".
var fileNamePattern = regexp.MustCompile(`(?i)^(?:sip[-_\s]?)?0*(\d+)(?:[-_.\s]|$)`)

func idFromFileName(in IdentifierInput) string {
	base := path.Base(strings.TrimSpace(in.FileName))
	m := fileNamePattern.FindStringSubmatch(base)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return domain.FormatID(n)
}

// titlePattern matches a proposal reference inside a change-request
// title, e.g. "SIP-12: ...", "SIP 12", "sip:12".
var titlePattern = regexp.MustCompile(`(?i)\bsip[-\s:]?(\d+)\b`)

func idFromChangeRequestTitle(in IdentifierInput) string {
	if !in.SourceKind.IsChangeRequest() {
		return ""
	}
	m := titlePattern.FindStringSubmatch(in.ChangeRequestTitle)
	if m == nil {
		return ""
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return ""
	}
	return domain.FormatID(n)
}

// idFromChangeRequestNumber applies to placeholders only. Extending it
// to changed files would let any miscellaneous markdown file in a
// change request claim the request's number, which is exactly what the
// not-a-distinct-proposal skip exists to prevent.
func idFromChangeRequestNumber(in IdentifierInput) string {
	if in.SourceKind != domain.SourceChangeRequestPlaceholder || in.ChangeRequestNumber <= 0 {
		return ""
	}
	return domain.FormatID(in.ChangeRequestNumber)
}

func idFromSlug(in IdentifierInput) string {
	if in.SourceKind.IsChangeRequest() {
		return ""
	}
	slug := Slugify(strings.TrimSuffix(path.Base(in.FileName), path.Ext(in.FileName)))
	if slug == "" {
		return ""
	}
	return domain.GenericIDPrefix + slug
}

// numericValue parses a header value as a proposal number, accepting a
// bare number or a sip-prefixed one.
func numericValue(v string) (int, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	v = strings.TrimPrefix(v, domain.IDPrefix)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases a name and collapses every non-alphanumeric run
// to a single hyphen.
func Slugify(s string) string {
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}
