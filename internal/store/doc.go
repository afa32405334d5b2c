// Package store provides SQLite-backed durable storage for the event log.
//
// The store holds a single append-only table:
//   - events: id (autoincrement), ts (UTC ISO-8601 text), message
//
// Events are never updated or deleted by this package. Retention and
// rotation belong to the external backup job.
//
// # Ordering
//
// All reads order by id, never by ts. The id column is assigned by SQLite
// with AUTOINCREMENT, so it is strictly increasing in insertion order and
// never reused after a row disappears.
//
// # Database Configuration
//
//   - journal_mode=DELETE: the database stays a single file that a plain
//     file copy can back up
//   - synchronous=FULL: every committed insert is durable
//
// No busy timeout is configured. A locked database surfaces as an error
// to the caller instead of being retried.
package store
