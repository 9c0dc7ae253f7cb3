package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"datachat/pkg/openaicompat"
)

// CompatAdapter adapts an OpenAI-compatible client to the Provider interface.
type CompatAdapter struct {
	client openaicompat.IClient
	name   string
}

// NewCompatAdapter creates a Provider backed by an OpenAI-compatible client.
func NewCompatAdapter(name string, client openaicompat.IClient) *CompatAdapter {
	return &CompatAdapter{client: client, name: name}
}

// GenerateContent converts the normalized request, calls the client, and
// converts the response back.
func (a *CompatAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	resp, err := a.client.GenerateContent(ctx, toCompatRequest(req))
	if err != nil {
		return nil, classifyError(err)
	}

	out := &Response{
		Content:      fromCompatContent(resp.Content),
		ProviderName: a.name,
		ModelName:    a.client.Model(),
		Usage:        &Usage{},
	}
	if resp.Usage != nil {
		out.Usage = &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return out, nil
}

// classifyError maps client failures onto the provider error sentinels so
// the manager's callers can match on errors.Is.
func classifyError(err error) error {
	var apiErr *openaicompat.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrProviderRateLimited, err)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return err
}

// Name returns the provider name.
func (a *CompatAdapter) Name() string {
	return a.name
}

// Model returns the model being used.
func (a *CompatAdapter) Model() string {
	return a.client.Model()
}

func toCompatRequest(req *Request) *openaicompat.Request {
	out := &openaicompat.Request{
		ForcedTool:  req.ForcedTool,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	if req.SystemInstruction != nil {
		sys := toCompatContent(*req.SystemInstruction)
		out.SystemInstruction = &sys
	}

	out.Messages = make([]openaicompat.Content, 0, len(req.Messages))
	for _, msg := range req.Messages {
		out.Messages = append(out.Messages, toCompatContent(msg))
	}

	if len(req.Tools) > 0 {
		out.Tools = make([]openaicompat.Tool, len(req.Tools))
		for i, tool := range req.Tools {
			out.Tools[i] = openaicompat.Tool{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.Parameters,
			}
		}
	}

	return out
}

func toCompatContent(msg Message) openaicompat.Content {
	out := openaicompat.Content{Role: msg.Role}
	for _, part := range msg.Parts {
		p := openaicompat.Part{Text: part.Text}
		if part.FunctionCall != nil {
			p.FunctionCall = &openaicompat.FunctionCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			}
		}
		if part.FunctionResponse != nil {
			p.FunctionResponse = &openaicompat.FunctionResponse{
				ID:       part.FunctionResponse.ID,
				Name:     part.FunctionResponse.Name,
				Response: part.FunctionResponse.Response,
			}
		}
		out.Parts = append(out.Parts, p)
	}
	return out
}

func fromCompatContent(msg openaicompat.Content) Message {
	out := Message{Role: msg.Role}
	for _, part := range msg.Parts {
		p := Part{Text: part.Text}
		if part.FunctionCall != nil {
			p.FunctionCall = &FunctionCall{
				ID:   part.FunctionCall.ID,
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			}
		}
		if part.FunctionResponse != nil {
			p.FunctionResponse = &FunctionResponse{
				ID:       part.FunctionResponse.ID,
				Name:     part.FunctionResponse.Name,
				Response: part.FunctionResponse.Response,
			}
		}
		out.Parts = append(out.Parts, p)
	}
	return out
}
