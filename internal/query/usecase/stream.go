package usecase

import (
	"context"
	"strings"

	"datachat/internal/agent/graph"
	"datachat/internal/query"
)

// streamBuffer bounds how far graph execution may run ahead of a slow
// consumer before the run blocks on the channel.
const streamBuffer = 16

// Stream runs a single-shot question with no session and feeds execution
// events in graph order. The channel closes when the run ends; it is
// never restarted mid-stream.
func (uc *useCase) Stream(ctx context.Context, question string) (<-chan query.StreamEvent, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, query.ErrEmptyQuestion
	}

	out := make(chan query.StreamEvent, streamBuffer)

	go func() {
		defer close(out)

		var lastSeq int
		sink := func(ev graph.Event) {
			if ev.Seq > lastSeq {
				lastSeq = ev.Seq
			}
			select {
			case out <- query.StreamEvent{Event: ev}:
			case <-ctx.Done():
			}
		}

		if _, err := uc.graph.Run(ctx, nil, question, sink); err != nil {
			uc.l.Errorf(ctx, "query usecase: stream run failed: %v", err)
			// The terminal error frame keeps the feed's ordering.
			sink(graph.Event{Type: graph.EventError, Seq: lastSeq + 1, Content: err.Error()})
		}
	}()

	return out, nil
}
