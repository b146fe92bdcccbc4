package store

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/roach88/donuts/internal/ledger"
)

// Contains reports whether a meeting with token has been recorded.
func (s *Store) Contains(ctx context.Context, token string) (bool, error) {
	token = ledger.NormalizeToken(token)
	if token == "" {
		return false, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM meetings WHERE token = ?
	`, token).Scan(&count)
	if err != nil {
		return false, &ledger.PersistenceError{Op: "contains", Err: err}
	}
	return count > 0, nil
}

// Size returns the number of recorded meetings.
func (s *Store) Size(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&count); err != nil {
		return 0, &ledger.PersistenceError{Op: "size", Err: err}
	}
	return count, nil
}

// Entries yields every meeting ordered by seq ASC.
//
// Each range opens a read-only transaction, so the whole iteration sees one
// snapshot even while appends land. Breaking out early releases it. The
// store has a single connection, so writes from inside the loop body block
// until the iteration ends.
func (s *Store) Entries(ctx context.Context) iter.Seq2[ledger.Entry, error] {
	return func(yield func(ledger.Entry, error) bool) {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
		if err != nil {
			yield(ledger.Entry{}, &ledger.PersistenceError{Op: "read", Err: fmt.Errorf("begin tx: %w", err)})
			return
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT person_a, person_b, token
			FROM meetings
			ORDER BY seq ASC
		`)
		if err != nil {
			yield(ledger.Entry{}, &ledger.PersistenceError{Op: "read", Err: fmt.Errorf("query meetings: %w", err)})
			return
		}
		defer rows.Close()

		for rows.Next() {
			e, err := scanEntry(rows)
			if err != nil {
				yield(ledger.Entry{}, &ledger.PersistenceError{Op: "read", Err: err})
				return
			}
			if !yield(e, nil) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			yield(ledger.Entry{}, &ledger.PersistenceError{Op: "read", Err: fmt.Errorf("iterate meetings: %w", err)})
		}
	}
}

// scanEntry scans a row into an Entry.
func scanEntry(rows *sql.Rows) (ledger.Entry, error) {
	var e ledger.Entry
	var token sql.NullString
	if err := rows.Scan(&e.PersonA, &e.PersonB, &token); err != nil {
		return ledger.Entry{}, fmt.Errorf("scan meeting: %w", err)
	}
	e.Token = token.String
	return e, nil
}
