// Package connectors holds clients for the hosted repositories that
// proposal documents live in. Each connector implements the
// driven.RepositoryClient port for one hosting provider.
package connectors
