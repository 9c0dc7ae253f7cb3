package usecase

import (
	"context"

	"datachat/internal/agent"
	"datachat/internal/agent/graph"
	"datachat/internal/query"
	pkgLog "datachat/pkg/log"
)

// Runner runs one orchestration turn. *graph.Graph satisfies it.
type Runner interface {
	Run(ctx context.Context, history []agent.Message, question string, sink graph.EventFunc) (*graph.Result, error)
}

// SessionStore is the conversation history the usecase borrows per turn.
// *session.Store satisfies it.
type SessionStore interface {
	Lock(id string) func()
	GetOrCreate(id string) []agent.Message
	AppendTurn(id string, msgs []agent.Message)
	Read(id string) ([]agent.Message, error)
	Clear(id string) bool
}

type useCase struct {
	l                pkgLog.Logger
	graph            Runner
	sessions         SessionStore
	defaultSessionID string
}

// New creates the query usecase.
func New(l pkgLog.Logger, g Runner, sessions SessionStore, defaultSessionID string) query.UseCase {
	if defaultSessionID == "" {
		defaultSessionID = "default"
	}
	return &useCase{
		l:                l,
		graph:            g,
		sessions:         sessions,
		defaultSessionID: defaultSessionID,
	}
}
