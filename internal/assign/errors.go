package assign

import (
	"errors"
	"fmt"
)

// InsufficientRosterError is returned when a non-empty roster has too few
// people to form a single pair.
type InsufficientRosterError struct {
	Size int
}

func (e *InsufficientRosterError) Error() string {
	return fmt.Sprintf("need at least 2 people to assign, have %d", e.Size)
}

// IsInsufficientRoster reports whether err is (or wraps) an
// *InsufficientRosterError.
func IsInsufficientRoster(err error) bool {
	var ie *InsufficientRosterError
	return errors.As(err, &ie)
}
