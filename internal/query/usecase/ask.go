package usecase

import (
	"context"
	"strings"

	"datachat/internal/agent"
	"datachat/internal/query"
)

// Ask answers one question within a session. The session's exclusive
// scope is held for the whole graph run so concurrent turns against the
// same id cannot interleave history.
func (uc *useCase) Ask(ctx context.Context, input query.AskInput) query.AskOutput {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return errorOutput(input.Question, query.ErrEmptyQuestion)
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = uc.defaultSessionID
	}

	release := uc.sessions.Lock(sessionID)
	defer release()

	history := uc.sessions.GetOrCreate(sessionID)

	result, err := uc.graph.Run(ctx, history, question, nil)
	if err != nil {
		uc.l.Errorf(ctx, "query usecase: run failed for session %s: %v", sessionID, err)
		// The failed turn is not recorded; the next question starts from
		// the last consistent history.
		return errorOutput(question, err)
	}

	turn := append([]agent.Message{agent.NewUserMessage(question)}, result.Messages...)
	uc.sessions.AppendTurn(sessionID, turn)

	return query.AskOutput{
		Status:   query.StatusSuccess,
		Question: question,
		Results:  result.FinalAnswer,
	}
}

func errorOutput(question string, err error) query.AskOutput {
	return query.AskOutput{
		Status:   query.StatusError,
		Question: question,
		Error:    err.Error(),
	}
}
