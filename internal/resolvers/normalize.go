package resolvers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// lookupNumericPattern accepts "7", "07", "sip-7", "SIP 007", "sip:7".
var lookupNumericPattern = regexp.MustCompile(`(?i)^(?:sip[-\s:]?)?0*(\d+)$`)

// NormalizeLookup turns a caller-supplied id into the canonical
// candidates to try against the cache, using the same derivation as the
// identifier chain: a numeric form maps to the padded canonical id,
// anything else is treated as a generic slug.
func NormalizeLookup(id string) []string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}

	if m := lookupNumericPattern.FindStringSubmatch(id); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return []string{domain.FormatID(n)}
		}
	}

	slug := Slugify(id)
	if slug == "" {
		return nil
	}
	if strings.HasPrefix(slug, domain.GenericIDPrefix) {
		return []string{slug}
	}
	return []string{slug, domain.GenericIDPrefix + slug}
}
