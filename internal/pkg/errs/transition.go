package errs

import (
	"errors"
	"fmt"
)

// ErrTransition is the sentinel wrapped by every TransitionError.
var ErrTransition = errors.New("transition rejected")

// TransitionReason classifies why a status change did not happen.
type TransitionReason string

const (
	// ReasonInvalidTransition means the move is not in the transition table for the current status.
	ReasonInvalidTransition TransitionReason = "invalid-transition"
	// ReasonStaleState means a concurrent writer changed the status first.
	ReasonStaleState TransitionReason = "stale-state"
	// ReasonActorNotPermitted means the move exists but the actor's role may not trigger it.
	ReasonActorNotPermitted TransitionReason = "actor-not-permitted"
)

// TransitionError reports a refused or lost order status change.
type TransitionError struct {
	Reason TransitionReason
	From   string
	To     string
	Cause  error
}

func NewTransitionError(reason TransitionReason, from, to string) *TransitionError {
	return &TransitionError{
		Reason: reason,
		From:   from,
		To:     to,
	}
}

func NewTransitionErrorWithCause(reason TransitionReason, from, to string, cause error) *TransitionError {
	return &TransitionError{
		Reason: reason,
		From:   from,
		To:     to,
		Cause:  cause,
	}
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s from %s to %s", ErrTransition, e.Reason, e.From, e.To)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return ErrTransition
}

// IsStaleState reports whether err is a TransitionError caused by a lost race.
func IsStaleState(err error) bool {
	var transitionErr *TransitionError
	return errors.As(err, &transitionErr) && transitionErr.Reason == ReasonStaleState
}
