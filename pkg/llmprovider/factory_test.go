package llmprovider

import (
	"errors"
	"testing"

	"datachat/config"
)

func TestInitializeProviders(t *testing.T) {
	t.Run("sorted by priority, disabled filtered out", func(t *testing.T) {
		cfg := &config.LLMConfig{Providers: []config.ProviderConfig{
			{Name: "qwen", Enabled: true, Priority: 2, APIKey: "k2"},
			{Name: "openai", Enabled: true, Priority: 1, APIKey: "k1"},
			{Name: "deepseek", Enabled: false, Priority: 3, APIKey: "k3"},
		}}

		providers, err := InitializeProviders(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(providers) != 2 {
			t.Fatalf("expected 2 providers, got %d", len(providers))
		}
		if providers[0].Name() != "openai" || providers[1].Name() != "qwen" {
			t.Errorf("unexpected order: %s, %s", providers[0].Name(), providers[1].Name())
		}
	})

	t.Run("broken provider is skipped", func(t *testing.T) {
		cfg := &config.LLMConfig{Providers: []config.ProviderConfig{
			{Name: "openai", Enabled: true, Priority: 1, APIKey: ""}, // missing key
			{Name: "deepseek", Enabled: true, Priority: 2, APIKey: "k"},
		}}

		providers, err := InitializeProviders(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(providers) != 1 || providers[0].Name() != "deepseek" {
			t.Errorf("expected only deepseek, got %+v", providers)
		}
	})

	t.Run("no enabled providers", func(t *testing.T) {
		cfg := &config.LLMConfig{Providers: []config.ProviderConfig{
			{Name: "openai", Enabled: false, APIKey: "k"},
		}}
		if _, err := InitializeProviders(cfg); !errors.Is(err, ErrNoProvidersConfigured) {
			t.Fatalf("expected ErrNoProvidersConfigured, got %v", err)
		}
	})

	t.Run("all providers broken", func(t *testing.T) {
		cfg := &config.LLMConfig{Providers: []config.ProviderConfig{
			{Name: "mystery", Enabled: true, APIKey: "k"},
		}}
		if _, err := InitializeProviders(cfg); err == nil {
			t.Fatal("expected an error")
		}
	})
}
