// Package github implements the repository client for GitHub-hosted
// proposal repositories.
//
// The client is read-only: it lists proposal folders, downloads document
// content, and enumerates pull requests with the files they touch. It
// wraps go-github behind the [driven.RepositoryClient] port so the rest
// of the system never sees GitHub API types.
//
// # Authentication
//
// A personal access token may be supplied via configuration. With a
// token the client operates at the authenticated quota of 5,000 requests
// per hour; without one it still works against public repositories at
// the unauthenticated quota of 60 per hour, which is enough for small
// repositories with a warm cache.
//
// # Rate Limiting
//
// The client implements a dual-strategy rate limiting approach:
//
//  1. Proactive throttling: a token bucket limits requests to
//     approximately 1.2 requests per second, staying well under the
//     5,000/hour limit whilst maximising throughput.
//
//  2. Reactive handling: the client monitors X-RateLimit-Remaining and
//     X-RateLimit-Reset headers. When limits are nearly exhausted, it
//     waits until the reset time before continuing.
//
// # Error Handling
//
// API failures are wrapped into [APIError] and [RateLimitError], both of
// which unwrap to the domain error taxonomy so callers can classify
// failures with errors.Is without inspecting status codes.
package github
