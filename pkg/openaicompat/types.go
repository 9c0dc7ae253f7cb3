package openaicompat

import (
	"fmt"
	"net/http"
)

// Config holds client configuration.
type Config struct {
	Vendor     string // openai | deepseek | qwen; picks BaseURL/Model defaults
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Validate validates the configuration and fills vendor defaults.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openaicompat: APIKey is required")
	}
	if c.Vendor == "" {
		c.Vendor = VendorOpenAI
	}
	if c.BaseURL == "" {
		base, ok := vendorBaseURLs[c.Vendor]
		if !ok {
			return fmt.Errorf("openaicompat: unknown vendor %q and no BaseURL given", c.Vendor)
		}
		c.BaseURL = base
	}
	if c.Model == "" {
		c.Model = vendorDefaultModels[c.Vendor]
	}
	if c.Model == "" {
		return fmt.Errorf("openaicompat: Model is required for vendor %q", c.Vendor)
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// clientImpl is the internal implementation of IClient.
type clientImpl struct {
	vendor     string
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Request represents a chat completion request.
type Request struct {
	SystemInstruction *Content
	Messages          []Content
	Tools             []Tool
	ForcedTool        string // non-empty: constrain the model to call exactly this tool
	Temperature       float64
	MaxTokens         int
}

// Content represents one conversation message.
type Content struct {
	Role  string
	Parts []Part
}

// Part is a message part: text, a tool call, or a tool result.
type Part struct {
	Text             string
	FunctionCall     *FunctionCall
	FunctionResponse *FunctionResponse
}

// Tool represents a function declaration offered to the model.
type Tool struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON Schema
}

// FunctionCall is a model-requested tool invocation.
type FunctionCall struct {
	ID   string
	Name string
	Args map[string]any
}

// FunctionResponse is the result of a tool invocation, fed back to
// the model. ID must match the triggering FunctionCall's ID.
type FunctionResponse struct {
	ID       string
	Name     string
	Response any
}

// Response represents a chat completion response.
type Response struct {
	Content Content
	Usage   *Usage
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Wire types for the OpenAI-compatible API.
type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Tools       []apiTool    `json:"tools,omitempty"`
	ToolChoice  any          `json:"tool_choice,omitempty"`
	Temperature float64      `json:"temperature,omitempty"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
}

type apiMessage struct {
	Role       string        `json:"role"`
	Content    string        `json:"content,omitempty"`
	ToolCalls  []apiToolCall `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
}

type apiTool struct {
	Type     string          `json:"type"`
	Function apiFunctionDecl `json:"function"`
}

type apiFunctionDecl struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type apiToolChoice struct {
	Type     string            `json:"type"`
	Function apiToolChoiceName `json:"function"`
}

type apiToolChoiceName struct {
	Name string `json:"name"`
}

type apiToolCall struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function apiFunctionCall `json:"function"`
}

type apiFunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type apiResponse struct {
	ID      string      `json:"id"`
	Object  string      `json:"object"`
	Created int64       `json:"created"`
	Model   string      `json:"model"`
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Index        int        `json:"index"`
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
