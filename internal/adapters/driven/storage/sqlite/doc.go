// Package sqlite provides SQLite-backed persistence for conversations.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each NNN_name.up.sql file records its own version in
// schema_migrations. Migrate is shared with the vector index, which keeps its
// own migration set.
//
// # Data Location
//
// By default, the database is stored at ~/.docchat/data/conversations.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
