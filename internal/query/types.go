package query

import (
	"datachat/internal/agent/graph"
)

// Status tags the outcome of one turn.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// AskInput is one inbound question. An empty SessionID selects the
// configured default session.
type AskInput struct {
	Question  string
	SessionID string
}

// AskOutput is the terminal payload returned to the channel adapter.
type AskOutput struct {
	Status   Status
	Question string
	Results  string // final answer text, success only
	Error    string // cause string, error only
}

// StreamEvent is one frame of the live execution feed.
type StreamEvent struct {
	Event graph.Event `json:"event"`
}

// ActionView is the read-model view of a requested action.
type ActionView struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// HistoryEntry is the read-model view of one stored conversation message.
type HistoryEntry struct {
	Role      string       `json:"role"`
	Content   string       `json:"content,omitempty"`
	Actions   []ActionView `json:"actions,omitempty"`
	InReplyTo string       `json:"in_reply_to,omitempty"`
}
