// Package database provides SQLite-based storage for solhydra.
//
// This package implements the HistoryDB, which records every generated
// report: when it was made, from which workspace, where it was written,
// which units and tools it covered and a SHA3-256 digest of its bytes.
// The digest makes it easy to tell whether two runs produced the same
// report.
//
// The database lives in the XDG data directory by default and uses
// modernc.org/sqlite, a CGO-free SQLite implementation.
package database
