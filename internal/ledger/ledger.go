package ledger

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// Entry is one confirmed meeting. Token is empty when absent.
type Entry struct {
	PersonA string `json:"person_a"`
	PersonB string `json:"person_b"`
	Token   string `json:"token,omitempty"`
}

// Store is the durable, append-only meeting history.
type Store interface {
	// Append records a meeting. When token is non-empty and already stored,
	// nothing is written and recorded is false.
	Append(ctx context.Context, personA, personB, token string) (recorded bool, err error)

	// Contains reports whether an entry with token exists.
	Contains(ctx context.Context, token string) (bool, error)

	// Size returns the number of entries.
	Size(ctx context.Context) (int, error)

	// Entries yields every entry in append order. Each range over the
	// returned sequence reads a fresh snapshot.
	Entries(ctx context.Context) iter.Seq2[Entry, error]

	Close() error
}

// PersistenceError reports a failed read or write of the underlying
// storage. The operation did not take effect and may be retried.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err is (or wraps) a *PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[Entry, error]) ([]Entry, error) {
	var entries []Entry
	for e, err := range seq {
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Slice adapts an in-memory slice to the sequence shape returned by
// Store.Entries.
func Slice(entries []Entry) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}
