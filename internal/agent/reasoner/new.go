package reasoner

import (
	"context"

	"datachat/internal/agent"
	"datachat/pkg/llmprovider"
	pkgLog "datachat/pkg/log"
)

// LLM is the transport the reasoner speaks through. *llmprovider.Manager
// satisfies it.
type LLM interface {
	GenerateContent(ctx context.Context, req *llmprovider.Request) (*llmprovider.Response, error)
}

// Proposer asks the reasoning service for the next conversation move.
type Proposer interface {
	// Propose sends the ordered message history plus the vocabulary of
	// actions permitted at the current graph node. When forced is non-nil
	// the service must emit exactly that action. Transport failures are
	// returned as *agent.ReasoningError; the client does not retry beyond
	// the provider manager's own policy.
	Propose(ctx context.Context, messages []agent.Message, allowed []agent.ActionName, forced *agent.ActionName) (agent.Message, error)
}

// Config holds reasoner configuration.
type Config struct {
	LLM     LLM
	Dialect string // SQL dialect named in the prompts, e.g. "SQLite"
	Logger  pkgLog.Logger
}

// Client implements Proposer on top of the LLM provider manager.
type Client struct {
	llm     LLM
	dialect string
	l       pkgLog.Logger
}

// New creates a reasoning client.
func New(cfg Config) *Client {
	dialect := cfg.Dialect
	if dialect == "" {
		dialect = "SQLite"
	}
	return &Client{
		llm:     cfg.LLM,
		dialect: dialect,
		l:       cfg.Logger,
	}
}
