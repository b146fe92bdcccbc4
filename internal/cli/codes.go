package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/donuts/internal/assign"
	"github.com/roach88/donuts/internal/engine"
	"github.com/roach88/donuts/internal/ledger"
	"github.com/roach88/donuts/internal/roster"
	"github.com/roach88/donuts/internal/source"
)

// Error codes for CLI output
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeConfig       = "E002" // Invalid configuration
	ErrCodeDuplicate    = "E003" // Duplicate identifier in registry
	ErrCodePersistence  = "E004" // History could not be read or written
	ErrCodeNotFound     = "E005" // Registry or history source not found
	ErrCodeRosterTooFew = "E006" // Fewer than two people to assign

	ErrCodeUnknownPerson   = "E101" // Identifier not in registry
	ErrCodeAmbiguousPerson = "E102" // Identifier matches several people
	ErrCodeSelfMeeting     = "E103" // Meeting of a person with themselves
	ErrCodeGroupTooSmall   = "E104" // Fewer than two distinct people
)

// configError marks failures loading or validating configuration.
type configError struct{ err error }

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// classify maps an error to its CLI error code and exit code. Persistence
// failures and an undersized roster exit with ExitFailure; everything the
// user can fix by changing arguments or files exits with ExitCommandError.
func classify(err error) (string, int) {
	var (
		ce *configError
		re *engine.RecordError
	)
	switch {
	case errors.As(err, &ce):
		return ErrCodeConfig, ExitCommandError
	case source.IsNotFound(err):
		return ErrCodeNotFound, ExitCommandError
	case roster.IsDuplicate(err):
		return ErrCodeDuplicate, ExitCommandError
	case ledger.IsPersistence(err):
		return ErrCodePersistence, ExitFailure
	case assign.IsInsufficientRoster(err):
		return ErrCodeRosterTooFew, ExitFailure
	case errors.As(err, &re):
		switch re.Code {
		case engine.ErrCodeUnknownPerson:
			return ErrCodeUnknownPerson, ExitCommandError
		case engine.ErrCodeAmbiguousPerson:
			return ErrCodeAmbiguousPerson, ExitCommandError
		case engine.ErrCodeSelfMeeting:
			return ErrCodeSelfMeeting, ExitCommandError
		case engine.ErrCodeGroupTooSmall:
			return ErrCodeGroupTooSmall, ExitCommandError
		}
	}
	return ErrCodeGeneric, ExitFailure
}

// fail reports err through the formatter and returns the matching
// ExitError.
func fail(formatter *OutputFormatter, message string, err error) error {
	code, exit := classify(err)
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exit, message, err)
}
