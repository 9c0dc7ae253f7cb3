package query

import "errors"

var (
	// ErrEmptyQuestion is returned when the inbound question is blank.
	ErrEmptyQuestion = errors.New("question must not be empty")
)
