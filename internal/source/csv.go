package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Source kinds used in error messages.
const (
	KindRegistry = "registry"
	KindHistory  = "history"
)

// NotFoundError reports a roster or history source that does not exist.
type NotFoundError struct {
	Kind string
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s file not found: %s", e.Kind, e.Path)
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ReadFile reads every row of a CSV file. Rows may have any number of
// fields; shape checks belong to the caller.
func ReadFile(path, kind string) ([][]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &NotFoundError{Kind: kind, Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", kind, err)
	}
	defer f.Close()

	rows, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", kind, path, err)
	}
	return rows, nil
}

// Read parses CSV rows from r with a variable field count.
func Read(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write encodes rows as CSV to w.
func Write(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return writer.Error()
}
