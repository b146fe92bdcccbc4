package engine

import (
	"errors"
	"fmt"
)

// RecordError is returned when a meeting confirmation cannot be recorded
// because of what it names, as opposed to a storage failure.
type RecordError struct {
	// Code identifies the error category.
	Code RecordErrorCode

	// Message is a human-readable description.
	Message string

	// Identifier is the offending name or email, when there is one.
	Identifier string
}

// RecordErrorCode categorizes record errors.
type RecordErrorCode string

const (
	// ErrCodeUnknownPerson indicates an identifier not in the registry.
	ErrCodeUnknownPerson RecordErrorCode = "UNKNOWN_PERSON"

	// ErrCodeAmbiguousPerson indicates an identifier that matches several
	// people once case is ignored.
	ErrCodeAmbiguousPerson RecordErrorCode = "AMBIGUOUS_PERSON"

	// ErrCodeSelfMeeting indicates both sides name the same person.
	ErrCodeSelfMeeting RecordErrorCode = "SELF_MEETING"

	// ErrCodeGroupTooSmall indicates a group with fewer than two distinct
	// people.
	ErrCodeGroupTooSmall RecordErrorCode = "GROUP_TOO_SMALL"
)

// Error implements the error interface.
func (e *RecordError) Error() string {
	if e.Identifier != "" {
		return fmt.Sprintf("%s: %s (%q)", e.Code, e.Message, e.Identifier)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsRecordError reports whether err is (or wraps) a *RecordError with code.
func IsRecordError(err error, code RecordErrorCode) bool {
	var re *RecordError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}
