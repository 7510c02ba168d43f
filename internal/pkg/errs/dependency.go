package errs

import (
	"errors"
	"fmt"
)

// ErrDependency is the sentinel wrapped by every DependencyError.
var ErrDependency = errors.New("dependency failure")

// DependencyError reports a failing collaborator such as the database.
// Operation names what was being attempted, e.g. "orders.get".
type DependencyError struct {
	Operation string
	Cause     error
}

func NewDependencyError(operation string, cause error) *DependencyError {
	return &DependencyError{
		Operation: operation,
		Cause:     cause,
	}
}

func (e *DependencyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrDependency, e.Operation, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrDependency, e.Operation)
}

func (e *DependencyError) Unwrap() error {
	return ErrDependency
}
