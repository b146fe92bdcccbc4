package ledger

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/roach88/donuts/internal/source"
)

// CSVStore keeps the history in a CSV file, one meeting per row:
// personA,personB[,token].
//
// Appends rewrite the whole file: read the current log, add the row, write
// the result to a temp file and rename it over the original. The cycle runs
// under mu and an exclusive flock on <path>.lock, so appends from other
// goroutines or other processes cannot lose each other's rows. Readers see
// either the old or the new file, never a partial one.
type CSVStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

var _ Store = (*CSVStore)(nil)

// OpenCSV returns a CSVStore for path. The file need not exist yet; a
// missing file is an empty history and is created on first append.
func OpenCSV(path string, logger *slog.Logger) (*CSVStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err != nil {
		return nil, &PersistenceError{Op: "open", Err: err}
	} else if !info.IsDir() {
		return nil, &PersistenceError{Op: "open", Err: errors.New("not a directory: " + dir)}
	}
	return &CSVStore{path: path, logger: logger}, nil
}

// Path returns the backing file.
func (s *CSVStore) Path() string {
	return s.path
}

// Append implements Store.
func (s *CSVStore) Append(ctx context.Context, personA, personB, token string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	token = NormalizeToken(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := lockFile(s.path + ".lock")
	if err != nil {
		return false, &PersistenceError{Op: "lock", Err: err}
	}
	defer func() {
		if uerr := unlock(); uerr != nil {
			s.logger.Warn("failed to release history lock", "path", s.path, "error", uerr)
		}
	}()

	rows, err := s.readRows()
	if err != nil {
		return false, &PersistenceError{Op: "append", Err: err}
	}

	if token != "" {
		entries, _ := ParseRows(rows, discardLogger)
		for _, e := range entries {
			if e.Token == token {
				s.logger.Debug("duplicate confirmation ignored", "token", token)
				return false, nil
			}
		}
	}

	rows = append(rows, Entry{PersonA: personA, PersonB: personB, Token: token}.Row())
	if err := s.writeRows(rows); err != nil {
		return false, &PersistenceError{Op: "append", Err: err}
	}

	s.logger.Info("recorded meeting", "person_a", personA, "person_b", personB, "token", token)
	return true, nil
}

// Contains implements Store.
func (s *CSVStore) Contains(ctx context.Context, token string) (bool, error) {
	token = NormalizeToken(token)
	if token == "" {
		return false, nil
	}
	for e, err := range s.Entries(ctx) {
		if err != nil {
			return false, err
		}
		if e.Token == token {
			return true, nil
		}
	}
	return false, nil
}

// Size implements Store.
func (s *CSVStore) Size(ctx context.Context) (int, error) {
	n := 0
	for _, err := range s.Entries(ctx) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// Entries implements Store. Each iteration reads the file once; malformed
// rows are logged and skipped.
func (s *CSVStore) Entries(ctx context.Context) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(Entry{}, err)
			return
		}
		rows, err := s.readRows()
		if err != nil {
			yield(Entry{}, &PersistenceError{Op: "read", Err: err})
			return
		}
		entries, _ := ParseRows(rows, s.logger)
		for _, e := range entries {
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Close implements Store. CSVStore holds no open handles.
func (s *CSVStore) Close() error {
	return nil
}

func (s *CSVStore) readRows() ([][]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return source.Read(bytes.NewReader(data))
}

func (s *CSVStore) writeRows(rows [][]string) (err error) {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".history-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = source.Write(tmp, rows); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.path)
}

var discardLogger = slog.New(slog.DiscardHandler)
