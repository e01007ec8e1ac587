package session

import (
	"errors"
	"fmt"

	"github.com/morozRed/revise/internal/fileutil"
)

// Kind classifies session failures.
type Kind int

const (
	KindUnknown Kind = iota
	KindStructureNotFound
	KindParse
	KindGenerator
	KindValidation
	KindPersist
	KindCommit
	KindPreflight
)

var (
	ErrStructureNotFound = errors.New("structure not found")
	ErrParse             = errors.New("parse failure")
	ErrGenerator         = errors.New("generator failure")
	ErrValidation        = errors.New("validation failure")
	ErrPersist           = errors.New("persist failure")
	ErrCommit            = errors.New("commit failure")
	ErrPreflight         = errors.New("preflight failure")

	// ErrPendingBackup means an earlier session left a backup that differs
	// from the file. Run `revise restore` or remove the backup first.
	ErrPendingBackup = fileutil.ErrBackupConflict
)

func (k Kind) String() string {
	switch k {
	case KindStructureNotFound:
		return "StructureNotFound"
	case KindParse:
		return "ParseFailure"
	case KindGenerator:
		return "GeneratorFailure"
	case KindValidation:
		return "ValidationFailure"
	case KindPersist:
		return "PersistFailure"
	case KindCommit:
		return "CommitFailure"
	case KindPreflight:
		return "PreflightFailure"
	default:
		return "Unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindStructureNotFound:
		return ErrStructureNotFound
	case KindParse:
		return ErrParse
	case KindGenerator:
		return ErrGenerator
	case KindValidation:
		return ErrValidation
	case KindPersist:
		return ErrPersist
	case KindCommit:
		return ErrCommit
	case KindPreflight:
		return ErrPreflight
	default:
		return nil
	}
}

// Error is a classified session failure. errors.Is matches both the kind's
// sentinel and the wrapped cause.
type Error struct {
	Kind Kind
	Err  error
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		return fmt.Sprintf("%v: %v", sentinel, e.Err)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	sentinel := e.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// KindOf returns the kind of a session error, or KindUnknown.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}
