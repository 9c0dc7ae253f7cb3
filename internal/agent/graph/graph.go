package graph

import (
	"context"
	"fmt"
	"time"

	"datachat/internal/agent"
)

// run is the ephemeral per-invocation state. It is never retained after
// Run returns.
type run struct {
	messages []agent.Message // session history + in-flight turn messages
	produced int             // index of the first message generated this turn
	node     Node
	rounds   int  // query_gen entries
	executed bool // at least one execute_query succeeded
	seq      int
	sink     EventFunc
}

func (r *run) append(msgs ...agent.Message) {
	r.messages = append(r.messages, msgs...)
}

func (r *run) emit(node Node, typ EventType, action, content string) {
	if r.sink == nil {
		return
	}
	r.seq++
	r.sink(Event{
		Seq:     r.seq,
		Node:    node,
		Type:    typ,
		Content: content,
		Action:  action,
		Time:    time.Now(),
	})
}

// newest returns the most recent message, which the routing policy
// inspects. Run never starts with an empty message list.
func (r *run) newest() agent.Message {
	return r.messages[len(r.messages)-1]
}

// Run executes one full turn: history plus the new question in, terminal
// result out. Tool failures are absorbed as corrective observations;
// reasoning failures abort the run.
func (g *Graph) Run(ctx context.Context, history []agent.Message, question string, sink EventFunc) (*Result, error) {
	r := &run{
		messages: make([]agent.Message, 0, len(history)+8),
		node:     NodeBootstrap,
		sink:     sink,
	}
	r.messages = append(r.messages, history...)
	r.messages = append(r.messages, agent.NewUserMessage(question))
	r.produced = len(r.messages)

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("graph run cancelled: %w", err)
		}

		r.emit(r.node, EventNodeEnter, "", "")

		var err error
		switch r.node {
		case NodeBootstrap:
			g.stepBootstrap(r)
		case NodeListTables, NodeGetSchema, NodeCheckQuery, NodeExecuteQuery:
			err = g.stepTool(ctx, r)
		case NodeSchemaPropose:
			err = g.stepSchemaPropose(ctx, r)
		case NodeQueryGen:
			err = g.stepQueryGen(ctx, r)
		case NodeFormatAnswer:
			err = g.stepFormatAnswer(ctx, r)
		default:
			err = fmt.Errorf("graph entered unknown node %q", r.node)
		}
		if err != nil {
			return nil, err
		}

		if r.node == NodeTerminal {
			answer, ok := finalAnswer(r.newest())
			if !ok {
				return nil, agent.ErrNoAnswer
			}
			r.emit(NodeTerminal, EventFinal, string(agent.ActionSubmitFinalAnswer), answer)
			return &Result{
				FinalAnswer: answer,
				Messages:    r.messages[r.produced:],
			}, nil
		}
	}
}

// stepBootstrap synthesizes the fixed list_tables action without a
// reasoning call.
func (g *Graph) stepBootstrap(r *run) {
	action := agent.NewAction(agent.ActionListTables, nil)
	r.append(agent.Message{Role: agent.RoleAssistant, Actions: []agent.Action{action}})
	r.emit(NodeBootstrap, EventAction, string(action.Name), "")
	r.node = NodeListTables
}

// stepTool invokes every action of the newest assistant message. A tool
// failure becomes one corrective observation per triggering action id;
// the run continues on the node's fixed outgoing edge either way.
func (g *Graph) stepTool(ctx context.Context, r *run) error {
	node := r.node
	actions := r.newest().Actions

	for _, action := range actions {
		obs, toolErr := g.invoke(ctx, action)
		if toolErr != nil {
			r.append(toolErr.Messages()...)
			r.emit(node, EventToolError, string(action.Name), toolErr.Cause)
			continue
		}
		if node == NodeExecuteQuery {
			r.executed = true
		}
		r.append(obs.Message())
		r.emit(node, EventObservation, string(action.Name), obs.Content)
	}

	switch node {
	case NodeListTables:
		r.node = NodeSchemaPropose
	default:
		// get_schema, check_query and execute_query all feed back into
		// query generation.
		r.node = NodeQueryGen
	}
	return nil
}

// stepSchemaPropose asks the reasoning service which schemas it needs.
func (g *Graph) stepSchemaPropose(ctx context.Context, r *run) error {
	msg, err := g.propose(ctx, r.messages, []agent.ActionName{agent.ActionGetSchema}, nil)
	if err != nil {
		return err
	}
	r.append(msg)

	action, ok := msg.NewestAction()
	if ok && action.Name == agent.ActionGetSchema {
		r.emit(NodeSchemaPropose, EventAction, string(action.Name), "")
		r.node = NodeGetSchema
		return nil
	}

	// Plain text is valid here; move on to query generation without
	// schema detail.
	r.emit(NodeSchemaPropose, EventMessage, "", msg.Content)
	r.node = NodeQueryGen
	return nil
}

// stepQueryGen runs the conditional node. Routing inspects the newest
// assistant message's action tag; a round cap bounds unproductive loops.
func (g *Graph) stepQueryGen(ctx context.Context, r *run) error {
	r.rounds++
	if r.rounds > g.maxRounds {
		if r.executed {
			// Results exist; force a terminal payload instead of failing.
			r.node = NodeFormatAnswer
			return nil
		}
		if g.l != nil {
			g.l.Warnf(ctx, "graph: round cap %d reached without an answer", g.maxRounds)
		}
		return agent.ErrNoAnswer
	}

	allowed := []agent.ActionName{
		agent.ActionCheckQuery,
		agent.ActionExecuteQuery,
		agent.ActionSubmitFinalAnswer,
	}
	msg, err := g.propose(ctx, r.messages, allowed, nil)
	if err != nil {
		return err
	}
	r.append(msg)

	action, ok := msg.NewestAction()
	if !ok {
		// Unproductive turn: no action requested. Loop back, bounded by
		// the round cap.
		r.emit(NodeQueryGen, EventMessage, "", msg.Content)
		r.node = NodeQueryGen
		return nil
	}

	r.emit(NodeQueryGen, EventAction, string(action.Name), "")

	switch action.Name {
	case agent.ActionSubmitFinalAnswer:
		r.node = NodeTerminal
	case agent.ActionExecuteQuery:
		r.node = NodeExecuteQuery
	case agent.ActionCheckQuery:
		r.node = NodeCheckQuery
	default:
		// Out-of-vocabulary action: absorb as a corrective observation
		// and loop.
		toolErr := &agent.ToolError{
			ActionIDs: []string{action.ID},
			Cause:     fmt.Sprintf("unknown action %q", action.Name),
		}
		r.append(toolErr.Messages()...)
		r.emit(NodeQueryGen, EventToolError, string(action.Name), toolErr.Cause)
		r.node = NodeQueryGen
	}
	return nil
}

// stepFormatAnswer forces a submit_final_answer action so the run always
// ends with a terminal payload rather than an unstructured reply.
func (g *Graph) stepFormatAnswer(ctx context.Context, r *run) error {
	forced := agent.ActionSubmitFinalAnswer
	msg, err := g.propose(ctx, r.messages, []agent.ActionName{forced}, &forced)
	if err != nil {
		return err
	}
	r.append(msg)
	r.node = NodeTerminal
	return nil
}

func (g *Graph) propose(ctx context.Context, messages []agent.Message, allowed []agent.ActionName, forced *agent.ActionName) (agent.Message, error) {
	if g.reasonTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.reasonTimeout)
		defer cancel()
	}
	return g.reasoner.Propose(ctx, messages, allowed, forced)
}

func (g *Graph) invoke(ctx context.Context, action agent.Action) (agent.Observation, *agent.ToolError) {
	if g.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.toolTimeout)
		defer cancel()
	}
	return g.toolkit.Invoke(ctx, action)
}

// finalAnswer extracts the terminal payload from a submit_final_answer
// action on the given assistant message.
func finalAnswer(msg agent.Message) (string, bool) {
	action, ok := msg.NewestAction()
	if !ok || action.Name != agent.ActionSubmitFinalAnswer {
		return "", false
	}
	return action.StringArg("final_answer"), true
}
