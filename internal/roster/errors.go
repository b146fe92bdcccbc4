package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an identifier does not name anyone.
	ErrNotFound = errors.New("identifier not in registry")

	// ErrAmbiguous is returned by ResolveFold when an identifier matches
	// more than one person after case folding.
	ErrAmbiguous = errors.New("identifier is ambiguous")
)

// DuplicateIdentifierError reports a name or email claimed by two people.
type DuplicateIdentifierError struct {
	Identifier string
	Existing   int // ID already bound to Identifier
	Row        int // 1-based roster row that tried to rebind it
}

func (e *DuplicateIdentifierError) Error() string {
	return fmt.Sprintf("duplicate key %s in registry (row %d, already bound to id %d)",
		e.Identifier, e.Row, e.Existing)
}

// IsDuplicate reports whether err is (or wraps) a *DuplicateIdentifierError.
func IsDuplicate(err error) bool {
	var de *DuplicateIdentifierError
	return errors.As(err, &de)
}
