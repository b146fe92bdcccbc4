// Package store provides SQLite-backed durable storage for the meeting
// history.
//
// The store implements ledger.Store as an append-only table:
//   - meetings: one row per confirmed meeting, never updated or deleted
//
// # Critical Patterns
//
// Token-Level Idempotency
//   - token column is UNIQUE and NULL when absent
//   - INSERT ... ON CONFLICT(token) DO NOTHING turns a replayed
//     confirmation into a no-op; NULL tokens never conflict
//
// Append Order
//   - seq INTEGER PRIMARY KEY AUTOINCREMENT is the only ordering
//   - All reads use ORDER BY seq ASC
//
// Single Writer
//   - One pooled connection and a mutex around every write
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
