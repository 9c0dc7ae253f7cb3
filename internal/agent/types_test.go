package agent_test

import (
	"strings"
	"testing"

	"datachat/internal/agent"
)

func TestNewAction(t *testing.T) {
	a := agent.NewAction(agent.ActionExecuteQuery, map[string]any{"query": "SELECT 1"})
	b := agent.NewAction(agent.ActionExecuteQuery, nil)

	if !strings.HasPrefix(a.ID, "call_") {
		t.Errorf("expected a call_ prefixed id, got %q", a.ID)
	}
	if a.ID == b.ID {
		t.Error("action ids must be unique")
	}
}

func TestAction_StringArg(t *testing.T) {
	a := agent.Action{Args: map[string]any{"query": "SELECT 1", "limit": 5}}

	if got := a.StringArg("query"); got != "SELECT 1" {
		t.Errorf("expected the query string, got %q", got)
	}
	if got := a.StringArg("limit"); got != "" {
		t.Errorf("non-string args must come back empty, got %q", got)
	}
	if got := a.StringArg("missing"); got != "" {
		t.Errorf("missing args must come back empty, got %q", got)
	}
	if got := (agent.Action{}).StringArg("query"); got != "" {
		t.Errorf("nil args must come back empty, got %q", got)
	}
}

func TestMessage_NewestAction(t *testing.T) {
	first := agent.NewAction(agent.ActionCheckQuery, nil)
	second := agent.NewAction(agent.ActionExecuteQuery, nil)
	msg := agent.Message{Role: agent.RoleAssistant, Actions: []agent.Action{first, second}}

	got, ok := msg.NewestAction()
	if !ok || got.ID != second.ID {
		t.Errorf("expected the last action, got %+v (ok=%v)", got, ok)
	}

	if _, ok := agent.NewUserMessage("q").NewestAction(); ok {
		t.Error("a plain message has no newest action")
	}
}

func TestObservation_Message(t *testing.T) {
	obs := agent.Observation{ActionID: "call_1", Content: "customers, invoices"}
	msg := obs.Message()

	if msg.Role != agent.RoleTool || msg.InReplyTo != "call_1" || msg.Content != "customers, invoices" {
		t.Errorf("unexpected message: %+v", msg)
	}
}

func TestToolError_Messages(t *testing.T) {
	toolErr := &agent.ToolError{
		ActionIDs: []string{"call_1", "call_2"},
		Cause:     "no such table: tracsk",
	}

	msgs := toolErr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected one message per action id, got %d", len(msgs))
	}
	for i, msg := range msgs {
		if msg.Role != agent.RoleTool {
			t.Errorf("message %d: expected tool role, got %s", i, msg.Role)
		}
		if msg.Content != "Error: no such table: tracsk. Please fix your mistakes." {
			t.Errorf("message %d: unexpected content %q", i, msg.Content)
		}
	}
	if msgs[0].InReplyTo != "call_1" || msgs[1].InReplyTo != "call_2" {
		t.Error("corrective messages must pair with their action ids")
	}
}
