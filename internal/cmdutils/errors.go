package cmdutils

import (
	"github.com/pkg/errors"
)

// ErrSilent is returned when the error was already reported and the CLI
// should only set the exit code.
var ErrSilent = errors.New("SilentError")

// IncorrectUsageError indicates that the user called a command in a wrong
// way, so the command's usage help is printed along with the error.
type IncorrectUsageError struct {
	err error
}

func (e *IncorrectUsageError) Error() string {
	return e.err.Error()
}

func (e *IncorrectUsageError) Unwrap() error {
	return e.err
}

func WrapIncorrectUsageError(err error) error {
	return &IncorrectUsageError{err: err}
}

func NewIncorrectUsageError(format string, args ...any) error {
	return &IncorrectUsageError{err: errors.Errorf(format, args...)}
}
