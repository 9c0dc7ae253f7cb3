package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"datachat/internal/agent"
	"datachat/internal/agent/graph"
	"datachat/internal/query"
)

// closeNotifyRecorder wraps httptest.ResponseRecorder with the
// http.CloseNotifier method gin's Context.Stream requires.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
	closed chan bool
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder(), make(chan bool, 1)}
}

func (c *closeNotifyRecorder) CloseNotify() <-chan bool { return c.closed }

// Mock logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Debugf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Info(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Infof(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, arg ...any)                     {}
func (m *mockLogger) Warnf(ctx context.Context, template string, arg ...any)   {}
func (m *mockLogger) Error(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Errorf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Fatalf(ctx context.Context, template string, arg ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, arg ...any)                   {}
func (m *mockLogger) DPanicf(ctx context.Context, template string, arg ...any) {}
func (m *mockLogger) Panic(ctx context.Context, arg ...any)                    {}
func (m *mockLogger) Panicf(ctx context.Context, template string, arg ...any)  {}

// mockUseCase returns canned answers.
type mockUseCase struct {
	askOut   query.AskOutput
	askIn    query.AskInput
	history  []query.HistoryEntry
	readErr  error
	clearErr error
	events   []query.StreamEvent
}

func (m *mockUseCase) Ask(ctx context.Context, input query.AskInput) query.AskOutput {
	m.askIn = input
	return m.askOut
}

func (m *mockUseCase) Stream(ctx context.Context, question string) (<-chan query.StreamEvent, error) {
	if question == "" {
		return nil, query.ErrEmptyQuestion
	}
	ch := make(chan query.StreamEvent, len(m.events))
	for _, ev := range m.events {
		ch <- ev
	}
	close(ch)
	return ch, nil
}

func (m *mockUseCase) ClearSession(ctx context.Context, sessionID string) error {
	return m.clearErr
}

func (m *mockUseCase) ReadSession(ctx context.Context, sessionID string) ([]query.HistoryEntry, error) {
	return m.history, m.readErr
}

func newTestRouter(uc query.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(&mockLogger{}, uc)

	r := gin.New()
	r.POST("/query", h.Query)
	r.POST("/stream", h.Stream)
	r.GET("/sessions/:id", h.ReadSession)
	r.DELETE("/sessions/:id", h.ClearSession)
	return r
}

func TestHandler_Query(t *testing.T) {
	t.Run("successful answer", func(t *testing.T) {
		uc := &mockUseCase{askOut: query.AskOutput{
			Status:   query.StatusSuccess,
			Question: "How many tracks?",
			Results:  "There are 3503 tracks.",
		}}
		r := newTestRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/query",
			strings.NewReader(`{"question": "How many tracks?", "session_id": "s1"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var resp QueryResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Status != "success" || resp.Results != "There are 3503 tracks." {
			t.Errorf("unexpected response: %+v", resp)
		}
		if uc.askIn.SessionID != "s1" {
			t.Errorf("session id not forwarded, got %q", uc.askIn.SessionID)
		}
	})

	t.Run("turn error still returns 200 with error status", func(t *testing.T) {
		uc := &mockUseCase{askOut: query.AskOutput{
			Status:   query.StatusError,
			Question: "q",
			Error:    "no answer produced",
		}}
		r := newTestRouter(uc)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/query", strings.NewReader(`{"question": "q"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var resp QueryResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Status != "error" || resp.Error != "no answer produced" {
			t.Errorf("unexpected response: %+v", resp)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := newTestRouter(&mockUseCase{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/query", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for a missing question, got %d", w.Code)
		}
	})
}

func TestHandler_Stream(t *testing.T) {
	uc := &mockUseCase{events: []query.StreamEvent{
		{Event: graph.Event{Seq: 1, Node: graph.NodeBootstrap, Type: graph.EventNodeEnter}},
		{Event: graph.Event{Seq: 2, Node: graph.NodeTerminal, Type: graph.EventFinal, Content: "done"}},
	}}
	r := newTestRouter(uc)

	w := newCloseNotifyRecorder()
	req := httptest.NewRequest("POST", "/stream", strings.NewReader(`{"question": "q"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Errorf("expected an event stream content type, got %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"seq":1`) || !strings.Contains(body, `"seq":2`) {
		t.Errorf("expected both events in the stream, got %q", body)
	}
	if strings.Index(body, `"seq":1`) > strings.Index(body, `"seq":2`) {
		t.Error("events out of order")
	}
}

func TestHandler_ReadSession(t *testing.T) {
	t.Run("existing session", func(t *testing.T) {
		uc := &mockUseCase{history: []query.HistoryEntry{
			{Role: "user", Content: "q"},
			{Role: "assistant", Content: "a"},
		}}
		r := newTestRouter(uc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/sessions/s1", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"role":"user"`) {
			t.Errorf("expected history in the body, got %q", w.Body.String())
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		uc := &mockUseCase{readErr: agent.ErrSessionNotFound}
		r := newTestRouter(uc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", "/sessions/missing", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}

func TestHandler_ClearSession(t *testing.T) {
	t.Run("existing session", func(t *testing.T) {
		r := newTestRouter(&mockUseCase{})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("DELETE", "/sessions/s1", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		uc := &mockUseCase{clearErr: agent.ErrSessionNotFound}
		r := newTestRouter(uc)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("DELETE", "/sessions/missing", nil))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})
}
