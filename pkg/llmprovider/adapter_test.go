package llmprovider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"datachat/pkg/openaicompat"
)

type stubCompatClient struct {
	resp *openaicompat.Response
	err  error
}

func (c *stubCompatClient) GenerateContent(ctx context.Context, req *openaicompat.Request) (*openaicompat.Response, error) {
	return c.resp, c.err
}

func (c *stubCompatClient) Model() string { return "stub-model" }

func TestCompatAdapter_ErrorClassification(t *testing.T) {
	ctx := context.Background()

	t.Run("429 maps to ErrProviderRateLimited", func(t *testing.T) {
		adapter := NewCompatAdapter("openai", &stubCompatClient{
			err: &openaicompat.APIError{Vendor: "openai", StatusCode: http.StatusTooManyRequests, Body: "slow down"},
		})

		_, err := adapter.GenerateContent(ctx, testRequest())
		if !errors.Is(err, ErrProviderRateLimited) {
			t.Fatalf("expected ErrProviderRateLimited, got %v", err)
		}
	})

	t.Run("deadline maps to ErrProviderTimeout", func(t *testing.T) {
		adapter := NewCompatAdapter("openai", &stubCompatClient{
			err: fmt.Errorf("openai: API call failed: %w", context.DeadlineExceeded),
		})

		_, err := adapter.GenerateContent(ctx, testRequest())
		if !errors.Is(err, ErrProviderTimeout) {
			t.Fatalf("expected ErrProviderTimeout, got %v", err)
		}
	})

	t.Run("other API errors pass through unclassified", func(t *testing.T) {
		adapter := NewCompatAdapter("openai", &stubCompatClient{
			err: &openaicompat.APIError{Vendor: "openai", StatusCode: http.StatusInternalServerError, Body: "boom"},
		})

		_, err := adapter.GenerateContent(ctx, testRequest())
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.Is(err, ErrProviderRateLimited) || errors.Is(err, ErrProviderTimeout) {
			t.Fatalf("expected unclassified error, got %v", err)
		}
	})

	t.Run("nil request", func(t *testing.T) {
		adapter := NewCompatAdapter("openai", &stubCompatClient{})
		if _, err := adapter.GenerateContent(ctx, nil); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("expected ErrInvalidRequest, got %v", err)
		}
	})
}
