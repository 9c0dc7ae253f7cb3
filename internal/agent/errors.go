package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned on read/clear of an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNoAnswer is returned when a graph run reaches its round cap
	// without a submit_final_answer action.
	ErrNoAnswer = errors.New("no answer produced")
)

// ReasoningError wraps a failed reasoning service call. Unlike a
// ToolError it is fatal to the current run and surfaces to the caller.
type ReasoningError struct {
	Err error
}

func (e *ReasoningError) Error() string {
	return fmt.Sprintf("reasoning service: %v", e.Err)
}

func (e *ReasoningError) Unwrap() error {
	return e.Err
}
