package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/donuts/internal/ledger"
)

// createTestStore creates a new on-disk store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// mustAppend appends a meeting and fails the test on error.
func mustAppend(t *testing.T, s *Store, a, b, token string) bool {
	t.Helper()
	recorded, err := s.Append(context.Background(), a, b, token)
	if err != nil {
		t.Fatalf("Append(%q, %q, %q) failed: %v", a, b, token, err)
	}
	return recorded
}

// mustEntries collects every entry and fails the test on error.
func mustEntries(t *testing.T, s *Store) []ledger.Entry {
	t.Helper()
	entries, err := ledger.Collect(s.Entries(context.Background()))
	if err != nil {
		t.Fatalf("Entries() failed: %v", err)
	}
	return entries
}

// mustSize returns the store size and fails the test on error.
func mustSize(t *testing.T, s *Store) int {
	t.Helper()
	n, err := s.Size(context.Background())
	if err != nil {
		t.Fatalf("Size() failed: %v", err)
	}
	return n
}
