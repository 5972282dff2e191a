// Package database provides SQLite-based storage for SEOLens.
//
// This package implements the AuditDB, which stores completed site audits
// so later runs can be compared against earlier ones: did the score go up
// after the fixes, which pages regressed, when was the site last audited.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
