// Package database opens the SQL backend and migrates the library schema.
//
// # Architecture
//
// Database holds the *gorm.DB connection. Persistence for each entity lives in
// its own sub-package with a Repository type:
//
//   - books: catalog items keyed by ISBN or ISSN
//   - members: library members, unique by email
//   - loans: loan records and the outstanding/overdue queries
//
// # Backends
//
// SQLite (gorm.io/driver/sqlite) is the default. MySQL (gorm.io/driver/mysql)
// is selected with Options.Driver and configured through a DSN. Both backends
// share the same migrations.
//
// # Error Handling
//
// Repositories translate gorm.ErrRecordNotFound into entities.ErrNotFound so
// callers never import gorm to detect a missing record.
package database
