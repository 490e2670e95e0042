// Package sqlite provides the SQLite-backed snapshot store.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation
// that requires no CGO, enabling easy cross-compilation. It persists the
// last reconciled result set so a restarted process can serve a warm
// cache before its first refresh completes.
//
// # Schema
//
// The store keeps exactly one snapshot: a single-row snapshots table
// holding the capture time, and a records table holding one JSON-encoded
// proposal per row in merge order. Save replaces both in one
// transaction.
//
// # Data Location
//
// By default, the database is stored at ~/.sipdex/data/snapshot.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
