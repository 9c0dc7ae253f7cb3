package agent

import "github.com/google/uuid"

// Role identifies who authored a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ActionName is the closed vocabulary of actions the reasoning service
// may request. Routing dispatches on this tag, never on message shape.
type ActionName string

const (
	ActionListTables        ActionName = "list_tables"
	ActionGetSchema         ActionName = "get_schema"
	ActionCheckQuery        ActionName = "check_query"
	ActionExecuteQuery      ActionName = "execute_query"
	ActionSubmitFinalAnswer ActionName = "submit_final_answer"
)

// Action is a structured request emitted by the reasoning service.
type Action struct {
	ID   string
	Name ActionName
	Args map[string]any
}

// NewAction builds an action with a fresh id, unique within the turn.
func NewAction(name ActionName, args map[string]any) Action {
	return Action{
		ID:   "call_" + uuid.NewString(),
		Name: name,
		Args: args,
	}
}

// StringArg returns the named argument as a string, or "" when absent
// or of another type.
func (a Action) StringArg(key string) string {
	if a.Args == nil {
		return ""
	}
	s, _ := a.Args[key].(string)
	return s
}

// Message is one turn entry in a conversation.
//
// Invariant: a tool message's InReplyTo must match an action id emitted by
// the immediately preceding assistant message; the reasoning service relies
// on that pairing to correlate observations with its requests.
type Message struct {
	Role      Role
	Content   string
	Actions   []Action // assistant-authored only
	InReplyTo string   // tool messages only: id of the triggering action
}

// NewUserMessage builds a plain user message.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Content: text}
}

// NewestAction returns the last action of an assistant message and true,
// or the zero Action and false when the message carries none.
func (m Message) NewestAction() (Action, bool) {
	if len(m.Actions) == 0 {
		return Action{}, false
	}
	return m.Actions[len(m.Actions)-1], true
}

// Observation is a successful tool result, tagged with the action that
// produced it.
type Observation struct {
	ActionID string
	Content  string
}

// Message renders the observation as a tool message.
func (o Observation) Message() Message {
	return Message{Role: RoleTool, Content: o.Content, InReplyTo: o.ActionID}
}

// ToolError is a failed tool call. It is a result value, not a raised
// error: the graph converts it into corrective tool messages and feeds
// them back to the reasoning service instead of aborting the run.
type ToolError struct {
	ActionIDs []string
	Cause     string
}

func (e *ToolError) Error() string {
	return e.Cause
}

// Messages renders one corrective tool message per triggering action id,
// instructing the reasoning service to fix its request.
func (e *ToolError) Messages() []Message {
	msgs := make([]Message, 0, len(e.ActionIDs))
	for _, id := range e.ActionIDs {
		msgs = append(msgs, Message{
			Role:      RoleTool,
			Content:   "Error: " + e.Cause + ". Please fix your mistakes.",
			InReplyTo: id,
		})
	}
	return msgs
}
