package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"datachat/internal/agent"
)

func turn(question, answer string) []agent.Message {
	return []agent.Message{
		agent.NewUserMessage(question),
		{Role: agent.RoleAssistant, Content: answer},
	}
}

func TestStore_AppendTurn(t *testing.T) {
	t.Run("history stays within the cap", func(t *testing.T) {
		s := New(Config{MaxHistory: 4})

		for i := 0; i < 10; i++ {
			s.AppendTurn("s1", turn("q", "a"))
		}

		msgs, err := s.Read("s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(msgs) > 4 {
			t.Errorf("expected at most 4 messages, got %d", len(msgs))
		}
	})

	t.Run("truncation drops whole turns", func(t *testing.T) {
		s := New(Config{MaxHistory: 5})

		// Three two-message turns: 6 messages, one over the cap. A raw
		// cut would leave a dangling assistant message in front.
		s.AppendTurn("s1", turn("q1", "a1"))
		s.AppendTurn("s1", turn("q2", "a2"))
		s.AppendTurn("s1", turn("q3", "a3"))

		msgs, err := s.Read("s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(msgs) != 4 {
			t.Fatalf("expected 4 messages after turn-aligned truncation, got %d", len(msgs))
		}
		if msgs[0].Role != agent.RoleUser || msgs[0].Content != "q2" {
			t.Errorf("history must start at a turn boundary, got %s %q", msgs[0].Role, msgs[0].Content)
		}
	})

	t.Run("oversized single turn is bounded anyway", func(t *testing.T) {
		s := New(Config{MaxHistory: 3})

		big := []agent.Message{
			agent.NewUserMessage("q"),
			{Role: agent.RoleAssistant, Content: "a1"},
			{Role: agent.RoleTool, Content: "o1"},
			{Role: agent.RoleAssistant, Content: "a2"},
			{Role: agent.RoleTool, Content: "o2"},
		}
		s.AppendTurn("s1", big)

		msgs, err := s.Read("s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(msgs) != 3 {
			t.Errorf("cap must hold even for a single oversized turn, got %d messages", len(msgs))
		}
	})
}

func TestStore_Read(t *testing.T) {
	t.Run("unknown session", func(t *testing.T) {
		s := New(Config{})
		if _, err := s.Read("missing"); !errors.Is(err, agent.ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("read does not mutate", func(t *testing.T) {
		s := New(Config{})
		s.AppendTurn("s1", turn("q", "a"))

		first, _ := s.Read("s1")
		first[0].Content = "tampered"

		second, _ := s.Read("s1")
		if second[0].Content != "q" {
			t.Error("callers must receive copies, not the stored slice")
		}
	})

	t.Run("read copies actions and args", func(t *testing.T) {
		s := New(Config{})
		s.AppendTurn("s1", []agent.Message{
			{Role: agent.RoleUser, Content: "q"},
			{Role: agent.RoleAssistant, Actions: []agent.Action{
				{ID: "call_1", Name: agent.ActionExecuteQuery, Args: map[string]any{"query": "SELECT 1"}},
			}},
		})

		first, _ := s.Read("s1")
		first[1].Actions[0].Args["query"] = "tampered"
		first[1].Actions[0].ID = "tampered"

		second, _ := s.Read("s1")
		if second[1].Actions[0].Args["query"] != "SELECT 1" {
			t.Error("action args must not be shared with callers")
		}
		if second[1].Actions[0].ID != "call_1" {
			t.Error("action slices must not be shared with callers")
		}
	})
}

func TestStore_Clear(t *testing.T) {
	s := New(Config{})
	s.AppendTurn("s1", turn("q", "a"))

	if !s.Clear("s1") {
		t.Error("expected Clear to report the session existed")
	}
	if s.Clear("s1") {
		t.Error("expected Clear of a cleared session to report absence")
	}
	if _, err := s.Read("s1"); !errors.Is(err, agent.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound after clear, got %v", err)
	}

	// A new turn under the same id starts fresh.
	s.AppendTurn("s1", turn("q2", "a2"))
	msgs, err := s.Read("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 2 || msgs[0].Content != "q2" {
		t.Errorf("expected a fresh session after clear, got %+v", msgs)
	}
}

func TestStore_SessionIsolation(t *testing.T) {
	s := New(Config{})
	s.AppendTurn("a", turn("question a", "answer a"))
	s.AppendTurn("b", turn("question b", "answer b"))

	msgsA, _ := s.Read("a")
	msgsB, _ := s.Read("b")

	if msgsA[0].Content != "question a" || msgsB[0].Content != "question b" {
		t.Error("sessions must not share history")
	}
	s.Clear("a")
	if _, err := s.Read("b"); err != nil {
		t.Error("clearing one session must not touch another")
	}
}

func TestStore_Lock(t *testing.T) {
	s := New(Config{})

	release := s.Lock("s1")
	acquired := make(chan struct{})
	go func() {
		r := s.Lock("s1")
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock must block while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired after release")
	}
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := New(Config{MaxHistory: 100})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := s.Lock("s1")
			defer release()
			s.AppendTurn("s1", turn("q", "a"))
		}()
	}
	wg.Wait()

	msgs, err := s.Read("s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 20 {
		t.Errorf("expected 20 messages, got %d", len(msgs))
	}
	// Turns must not interleave: every user message is followed by its
	// assistant reply.
	for i := 0; i < len(msgs); i += 2 {
		if msgs[i].Role != agent.RoleUser || msgs[i+1].Role != agent.RoleAssistant {
			t.Fatalf("turn %d interleaved: %s then %s", i/2, msgs[i].Role, msgs[i+1].Role)
		}
	}
}
