// Package engine ties the registry, the meeting history and the solver
// together.
//
// Assign reads the history once, counts meetings per pair and solves a
// fresh assignment; nothing it computes is persisted. Record and
// RecordGroup validate a confirmation against the registry and append it
// to the history, where a repeated correlation token is a silent no-op.
//
// An Engine holds no mutable state of its own. Concurrent Record calls are
// serialized by the history store.
package engine
