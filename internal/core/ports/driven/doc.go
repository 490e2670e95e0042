// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the hosted repository client, the
// summariser and the snapshot store.
package driven
