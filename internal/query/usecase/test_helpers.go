package usecase

import (
	"context"
	"errors"

	"datachat/internal/agent"
	"datachat/internal/agent/graph"
)

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

// mockRunner returns a fixed result or error and records its inputs.
type mockRunner struct {
	answer  string
	err     error
	events  []graph.Event
	history []agent.Message
	runs    int
}

func (m *mockRunner) Run(ctx context.Context, history []agent.Message, question string, sink graph.EventFunc) (*graph.Result, error) {
	m.runs++
	m.history = history
	if sink != nil {
		for _, ev := range m.events {
			sink(ev)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	return &graph.Result{
		FinalAnswer: m.answer,
		Messages: []agent.Message{
			{Role: agent.RoleAssistant, Content: m.answer},
		},
	}, nil
}

var errRunFailed = errors.New("run failed")
