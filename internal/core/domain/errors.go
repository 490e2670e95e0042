package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested proposal does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotDistinctProposal indicates a change-request file carried no
	// identifier signal and must not masquerade as a proposal; the
	// change request's own placeholder record represents it instead.
	ErrNotDistinctProposal = errors.New("not a distinct proposal")

	// ErrSummariserUnavailable indicates the summariser is not
	// configured. Parsing degrades to the fallback summary.
	ErrSummariserUnavailable = errors.New("summariser unavailable")

	// Authentication errors.

	// ErrAuthRequired indicates the repository requires authentication
	// but none is configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the supplied credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
