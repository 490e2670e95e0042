package driven

import (
	"context"

	"github.com/sipdex/sipdex/internal/core/domain"
)

// SummaryResult is the summariser output: a one-line headline plus the
// structured three-part summary. Every field is populated; when the
// inputs are too sparse or the backing service fails, each field holds
// the fixed fallback sentinel instead.
type SummaryResult struct {
	Headline   string
	Structured domain.StructuredSummary
}

// Summariser turns free proposal text into a short structured summary.
//
// Implementations must never let an internal failure escape: callers
// always receive a usable (possibly sentinel) result and a nil error.
// This is an optional service - a nil Summariser degrades every record
// to the fallback sentinel.
type Summariser interface {
	// Summarise summarises a proposal from its body and the optional
	// header abstract. Either input may be empty.
	Summarise(ctx context.Context, body, abstract string) SummaryResult
}

// FallbackSummaryResult returns the sentinel result used when no
// summary can be produced.
func FallbackSummaryResult() SummaryResult {
	return SummaryResult{
		Headline: domain.FallbackSummary,
		Structured: domain.StructuredSummary{
			WhatItIs:      domain.FallbackSummary,
			WhatItChanges: domain.FallbackSummary,
			WhyItMatters:  domain.FallbackSummary,
		},
	}
}
