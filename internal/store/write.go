package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/donuts/internal/ledger"
)

// Append inserts a meeting into the history.
// Uses ON CONFLICT(token) DO NOTHING for idempotency - a token already in
// the store is silently ignored and recorded is false. Rows without a token
// are stored as NULL and never conflict.
//
// Each row gets a UUIDv7 id so entries stay identifiable across exports.
func (s *Store) Append(ctx context.Context, personA, personB, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (id, person_a, person_b, token)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		newID(),
		personA,
		personB,
		nullableToken(token),
	)
	if err != nil {
		return false, &ledger.PersistenceError{Op: "append", Err: err}
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, &ledger.PersistenceError{Op: "append", Err: fmt.Errorf("rows affected: %w", err)}
	}

	if rowsAffected == 0 {
		s.logger.Debug("duplicate confirmation ignored", "token", token)
		return false, nil
	}
	s.logger.Info("recorded meeting", "person_a", personA, "person_b", personB, "token", token)
	return true, nil
}

// Import appends entries in a single transaction, applying the same token
// dedup as Append. Either every new row is written or none is.
// Returns the number of rows actually inserted.
func (s *Store) Import(ctx context.Context, entries []ledger.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &ledger.PersistenceError{Op: "import", Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback() // No-op if committed

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO meetings (id, person_a, person_b, token)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`)
	if err != nil {
		return 0, &ledger.PersistenceError{Op: "import", Err: fmt.Errorf("prepare: %w", err)}
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		result, err := stmt.ExecContext(ctx, newID(), e.PersonA, e.PersonB, nullableToken(e.Token))
		if err != nil {
			return 0, &ledger.PersistenceError{Op: "import", Err: err}
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, &ledger.PersistenceError{Op: "import", Err: fmt.Errorf("rows affected: %w", err)}
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, &ledger.PersistenceError{Op: "import", Err: fmt.Errorf("commit: %w", err)}
	}

	s.logger.Info("imported history", "rows", len(entries), "inserted", inserted)
	return inserted, nil
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
