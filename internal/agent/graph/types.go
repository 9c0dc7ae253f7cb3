package graph

import (
	"time"

	"datachat/internal/agent"
	"datachat/internal/agent/reasoner"
	"datachat/internal/agent/sqltool"
	pkgLog "datachat/pkg/log"
)

// Node names a state of the orchestration graph.
type Node string

const (
	NodeBootstrap     Node = "bootstrap"
	NodeListTables    Node = "list_tables"
	NodeSchemaPropose Node = "schema_propose"
	NodeGetSchema     Node = "get_schema"
	NodeQueryGen      Node = "query_gen"
	NodeCheckQuery    Node = "check_query"
	NodeExecuteQuery  Node = "execute_query"
	NodeFormatAnswer  Node = "format_answer"
	NodeTerminal      Node = "terminal"
)

// EventType tags a graph execution event.
type EventType string

const (
	EventNodeEnter   EventType = "node_enter"
	EventAction      EventType = "action"
	EventMessage     EventType = "message"
	EventObservation EventType = "observation"
	EventToolError   EventType = "tool_error"
	EventFinal       EventType = "final"
	EventError       EventType = "error"
)

// Event is one entry of the live execution feed, emitted in graph
// execution order.
type Event struct {
	Seq     int       `json:"seq"`
	Node    Node      `json:"node"`
	Type    EventType `json:"type"`
	Content string    `json:"content,omitempty"`
	Action  string    `json:"action,omitempty"`
	Time    time.Time `json:"time"`
}

// EventFunc receives execution events. It is called synchronously from
// the run loop and must not block for long.
type EventFunc func(Event)

// Result is the terminal payload of a successful run.
type Result struct {
	FinalAnswer string
	// Messages are the conversation entries produced during this turn
	// (assistant and tool messages, excluding the user question).
	Messages []agent.Message
}

// Config is the dependency bag for the graph.
type Config struct {
	Reasoner      reasoner.Proposer
	Toolkit       sqltool.Invoker
	Logger        pkgLog.Logger
	MaxRounds     int           // query_gen entries before giving up
	ReasonTimeout time.Duration // per reasoning call; 0 disables
	ToolTimeout   time.Duration // per tool call; 0 disables
}

// Graph is the orchestration state machine. It is stateless across runs;
// all per-invocation state lives in the run.
type Graph struct {
	reasoner      reasoner.Proposer
	toolkit       sqltool.Invoker
	l             pkgLog.Logger
	maxRounds     int
	reasonTimeout time.Duration
	toolTimeout   time.Duration
}

// DefaultMaxRounds bounds query generation when the config leaves it unset.
// The reasoning service is expected to terminate much earlier; the cap only
// guarantees it.
const DefaultMaxRounds = 8

// New creates a graph.
func New(cfg Config) *Graph {
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	return &Graph{
		reasoner:      cfg.Reasoner,
		toolkit:       cfg.Toolkit,
		l:             cfg.Logger,
		maxRounds:     maxRounds,
		reasonTimeout: cfg.ReasonTimeout,
		toolTimeout:   cfg.ToolTimeout,
	}
}
