package llm

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// azureAPIVersion is pinned; newer Azure API versions accept the same request body.
const azureAPIVersion = "2024-02-01"

// dialect captures everything that differs between providers: where the chat
// endpoint lives and how the API key travels.
type dialect struct {
	chatURL   func(base, model string) string
	authorize func(h http.Header, apiKey string)
}

var openAICompatible = dialect{
	chatURL: func(base, _ string) string {
		return base + "/v1/chat/completions"
	},
	authorize: func(h http.Header, apiKey string) {
		h.Set("Authorization", "Bearer "+apiKey)
	},
}

var azureDeployment = dialect{
	chatURL: func(base, model string) string {
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			base, url.PathEscape(model), azureAPIVersion)
	},
	authorize: func(h http.Header, apiKey string) {
		h.Set("api-key", apiKey)
	},
}

// dialects maps every Provider to its dialect. provider_test.go asserts the table is complete.
var dialects = map[Provider]dialect{
	ProviderOllama:   openAICompatible,
	ProviderLlamaCpp: openAICompatible,
	ProviderOpenAI:   openAICompatible,
	ProviderCustom:   openAICompatible,
	ProviderAzure:    azureDeployment,
}

// dialectFor resolves the dialect for p. An empty provider means ollama.
func dialectFor(p Provider) (dialect, error) {
	if p == "" {
		p = ProviderOllama
	}
	d, ok := dialects[p]
	if !ok {
		return dialect{}, fmt.Errorf("%w: %q", ErrUnknownProvider, p)
	}
	return d, nil
}

// buildChatURL returns the chat-completions endpoint for opts.
func buildChatURL(opts Options) (string, error) {
	d, err := dialectFor(opts.Provider)
	if err != nil {
		return "", err
	}
	return d.chatURL(trimBase(opts.BaseURL), opts.Model), nil
}

// buildHeaders returns the request headers for opts; the API key header is set only when a key is present.
func buildHeaders(opts Options) (http.Header, error) {
	d, err := dialectFor(opts.Provider)
	if err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set(headerContentType, mimeJSON)
	if opts.APIKey != "" {
		d.authorize(h, opts.APIKey)
	}
	return h, nil
}

func trimBase(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
