package cli

import (
	"errors"

	"github.com/morozRed/revise/internal/config"
	"github.com/morozRed/revise/internal/session"
)

// Exit codes follow the BSD sysexits convention where one fits.
const (
	ExitSuccess          = 0
	ExitRevisionFailed   = 1  // validator kept failing, or the generator gave nothing usable
	ExitNotFound         = 2  // target structure is not in the file
	ExitInvalidUsage     = 64 // bad arguments or flags
	ExitDataError        = 65 // source could not be parsed
	ExitUnavailable      = 69 // generator could not run
	ExitInternalError    = 70
	ExitCannotCreate     = 73 // edit could not be persisted
	ExitIOError          = 74
	ExitConfigError      = 78
	ExitCommitFailed     = 75
	ExitPendingBackup    = 76
	exitCodeUnclassified = ExitInternalError
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var parseErr *config.ParseError
	if errors.As(err, &parseErr) {
		return ExitConfigError
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return ExitInvalidUsage
	}
	if errors.Is(err, session.ErrPendingBackup) {
		return ExitPendingBackup
	}

	switch session.KindOf(err) {
	case session.KindStructureNotFound:
		return ExitNotFound
	case session.KindParse:
		return ExitDataError
	case session.KindGenerator:
		return ExitUnavailable
	case session.KindValidation:
		return ExitRevisionFailed
	case session.KindPersist:
		return ExitCannotCreate
	case session.KindCommit:
		return ExitCommitFailed
	case session.KindPreflight:
		return ExitIOError
	}
	return exitCodeUnclassified
}

// UsageError marks errors caused by how the command was invoked.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}
