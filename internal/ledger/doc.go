// Package ledger defines the meeting history: an append-only log of
// confirmed meetings between two people, each optionally tagged with a
// correlation token.
//
// # Idempotence
//
// A token identifies one real-world confirmation event. Appending an entry
// whose token is already stored is a successful no-op, so a redelivered
// confirmation never produces a second row. Entries without a token are
// always distinct.
//
// # Concurrency
//
// Appends are a single-writer critical section in every Store
// implementation. Entries reads one consistent snapshot per iteration, and
// may run concurrently with appends.
//
// Two implementations exist: CSVStore in this package, which keeps the
// history.csv format, and the SQLite store in internal/store.
package ledger
