package reasoner

import (
	"context"

	"datachat/internal/agent"
	"datachat/pkg/llmprovider"
)

// stage is derived from the permitted action set; it selects the system
// prompt without widening the Propose contract.
type stage int

const (
	stageQueryGen stage = iota
	stageSchemaPropose
	stageFormatAnswer
)

func classify(allowed []agent.ActionName, forced *agent.ActionName) stage {
	if forced != nil && *forced == agent.ActionSubmitFinalAnswer {
		return stageFormatAnswer
	}
	if len(allowed) == 1 && allowed[0] == agent.ActionGetSchema {
		return stageSchemaPropose
	}
	return stageQueryGen
}

// Propose implements Proposer.
func (c *Client) Propose(ctx context.Context, messages []agent.Message, allowed []agent.ActionName, forced *agent.ActionName) (agent.Message, error) {
	req := &llmprovider.Request{
		SystemInstruction: &llmprovider.Message{
			Role:  "system",
			Parts: []llmprovider.Part{{Text: c.systemPrompt(classify(allowed, forced))}},
		},
		Messages: toProviderMessages(messages),
		Tools:    declarationsFor(allowed),
	}
	if forced != nil {
		req.ForcedTool = string(*forced)
	}

	resp, err := c.llm.GenerateContent(ctx, req)
	if err != nil {
		return agent.Message{}, &agent.ReasoningError{Err: err}
	}

	return fromProviderMessage(resp.Content), nil
}

// toProviderMessages converts conversation history to the provider's
// normalized form. Tool messages carry the action id so the service can
// correlate observations with its requests.
func toProviderMessages(messages []agent.Message) []llmprovider.Message {
	out := make([]llmprovider.Message, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case agent.RoleUser:
			out = append(out, llmprovider.Message{
				Role:  "user",
				Parts: []llmprovider.Part{{Text: m.Content}},
			})

		case agent.RoleAssistant:
			pm := llmprovider.Message{Role: "assistant"}
			if m.Content != "" {
				pm.Parts = append(pm.Parts, llmprovider.Part{Text: m.Content})
			}
			for _, a := range m.Actions {
				pm.Parts = append(pm.Parts, llmprovider.Part{
					FunctionCall: &llmprovider.FunctionCall{
						ID:   a.ID,
						Name: string(a.Name),
						Args: a.Args,
					},
				})
			}
			out = append(out, pm)

		case agent.RoleTool:
			out = append(out, llmprovider.Message{
				Role: "tool",
				Parts: []llmprovider.Part{{
					FunctionResponse: &llmprovider.FunctionResponse{
						ID:       m.InReplyTo,
						Response: m.Content,
					},
				}},
			})
		}
	}
	return out
}

// fromProviderMessage converts the service's reply into an assistant
// message. Function calls without a wire id get a fresh one.
func fromProviderMessage(msg llmprovider.Message) agent.Message {
	out := agent.Message{Role: agent.RoleAssistant}
	for _, part := range msg.Parts {
		if part.Text != "" {
			if out.Content != "" {
				out.Content += "\n"
			}
			out.Content += part.Text
		}
		if part.FunctionCall != nil {
			action := agent.Action{
				ID:   part.FunctionCall.ID,
				Name: agent.ActionName(part.FunctionCall.Name),
				Args: part.FunctionCall.Args,
			}
			if action.ID == "" {
				action = agent.NewAction(action.Name, action.Args)
			}
			out.Actions = append(out.Actions, action)
		}
	}
	return out
}
