package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestDialects_CoverEveryProvider(t *testing.T) {
	t.Parallel()

	for _, p := range AllProviders {
		if _, ok := dialects[p]; !ok {
			t.Errorf("provider %q has no dialect", p)
		}
	}
	if len(dialects) != len(AllProviders) {
		t.Errorf("dialect table has %d entries, AllProviders has %d", len(dialects), len(AllProviders))
	}
}

func TestBuildChatURL_OpenAICompatible(t *testing.T) {
	t.Parallel()

	for _, p := range []Provider{ProviderOllama, ProviderLlamaCpp, ProviderOpenAI, ProviderCustom, ""} {
		got, err := buildChatURL(Options{Provider: p, BaseURL: "http://localhost:11434///", Model: "llama3.2"})
		if err != nil {
			t.Fatalf("%q: %v", p, err)
		}
		if got != "http://localhost:11434/v1/chat/completions" {
			t.Errorf("%q: got %q", p, got)
		}
	}
}

func TestBuildChatURL_Azure(t *testing.T) {
	t.Parallel()

	got, err := buildChatURL(Options{Provider: ProviderAzure, BaseURL: "https://res.openai.azure.com/", Model: "gpt 4o"})
	if err != nil {
		t.Fatal(err)
	}
	want := "https://res.openai.azure.com/openai/deployments/gpt%204o/chat/completions?api-version=2024-02-01"
	if got != want {
		t.Errorf("got %q\nwant %q", got, want)
	}
}

func TestBuildChatURL_UnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := buildChatURL(Options{Provider: "anthropic", BaseURL: "http://x"})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestBuildHeaders(t *testing.T) {
	t.Parallel()

	h, err := buildHeaders(Options{Provider: ProviderAzure, APIKey: "az-key"})
	if err != nil {
		t.Fatal(err)
	}
	if h.Get("api-key") != "az-key" || h.Get("Authorization") != "" {
		t.Errorf("azure headers = %v", h)
	}

	h, _ = buildHeaders(Options{Provider: ProviderOpenAI, APIKey: "sk-test"})
	if h.Get("Authorization") != "Bearer sk-test" || h.Get("api-key") != "" {
		t.Errorf("openai headers = %v", h)
	}

	h, _ = buildHeaders(Options{Provider: ProviderOllama})
	if h.Get("Authorization") != "" || h.Get("api-key") != "" {
		t.Errorf("keyless headers carry credentials: %v", h)
	}
	if !strings.HasPrefix(h.Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q", h.Get("Content-Type"))
	}
}
