package usecase

import (
	"context"

	"datachat/internal/agent"
	"datachat/internal/query"
)

// ClearSession removes a session's history. Unknown ids are an error
// status for the caller, never fatal.
func (uc *useCase) ClearSession(ctx context.Context, sessionID string) error {
	if !uc.sessions.Clear(sessionID) {
		return agent.ErrSessionNotFound
	}
	uc.l.Infof(ctx, "query usecase: cleared session %s", sessionID)
	return nil
}

// ReadSession returns the session history as a read model. Reading never
// mutates the stored history.
func (uc *useCase) ReadSession(ctx context.Context, sessionID string) ([]query.HistoryEntry, error) {
	msgs, err := uc.sessions.Read(sessionID)
	if err != nil {
		return nil, err
	}

	entries := make([]query.HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		entry := query.HistoryEntry{
			Role:      string(m.Role),
			Content:   m.Content,
			InReplyTo: m.InReplyTo,
		}
		for _, a := range m.Actions {
			entry.Actions = append(entry.Actions, query.ActionView{
				ID:   a.ID,
				Name: string(a.Name),
				Args: a.Args,
			})
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
