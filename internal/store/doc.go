// Package store provides persistent credential storage for the gateway using SQLite.
//
// # Architecture
//
// The AccountStore interface defines the credential operations the auth
// service needs; SQLiteStore implements it on a single accounts table.
// Handlers depend on the interface so tests can substitute fakes.
//
// # Uniqueness
//
// Email and username uniqueness is enforced by UNIQUE constraints in the
// database, not by check-then-insert in application code. Concurrent
// registrations racing on the same identity are serialized by SQLite:
// exactly one insert wins and the loser receives ErrDuplicateIdentity.
//
// # Data Model
//
//   - Account: id (UUID), email, username, bcrypt password hash, creation time
//
// Timestamps are stored as RFC3339 UTC strings.
package store
