// Package domain contains the core types of the reconciliation engine:
// proposal records, their lifecycle statuses, and the source kinds they
// were fetched from. It has no dependencies on transport or storage.
package domain
