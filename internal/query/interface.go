package query

import "context"

// UseCase is the application surface the channel adapters call.
type UseCase interface {
	// Ask answers one natural-language question within a session. Exactly
	// one terminal payload is produced per call, success or error.
	Ask(ctx context.Context, input AskInput) AskOutput

	// Stream runs a single-shot (sessionless) question and feeds graph
	// execution events in order. The channel closes when the run ends.
	Stream(ctx context.Context, question string) (<-chan StreamEvent, error)

	// ClearSession removes a session's history.
	ClearSession(ctx context.Context, sessionID string) error

	// ReadSession returns a session's history without mutating it.
	ReadSession(ctx context.Context, sessionID string) ([]HistoryEntry, error)
}
