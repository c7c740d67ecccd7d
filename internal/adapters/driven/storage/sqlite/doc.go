// Package sqlite provides a SQLite-based implementation of driven.RecordStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. Every load is kept as a snapshot so earlier versions of the table can be
// listed after the file on disk has changed.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.regdash/data/regdash.db
package sqlite
