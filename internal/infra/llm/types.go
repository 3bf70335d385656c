// Package llm defines the provider-agnostic chat client used by the settings page and
// the MCP tools. All types here are transient request/response values.
package llm

// Provider names the HTTP dialect spoken by an LLM backend.
type Provider string

const (
	ProviderOllama   Provider = "ollama"
	ProviderLlamaCpp Provider = "llama-cpp"
	ProviderOpenAI   Provider = "openai"
	ProviderAzure    Provider = "azure"
	ProviderCustom   Provider = "custom"
)

// AllProviders lists every supported provider in display order.
var AllProviders = []Provider{ProviderOllama, ProviderLlamaCpp, ProviderOpenAI, ProviderAzure, ProviderCustom}

// Message represents a single turn in a conversation (role + content).
type Message struct {
	Role    string `json:"role"` // "system" | "user" | "assistant"
	Content string `json:"content"`
}

// Options carries the per-call backend selection and sampling parameters.
// MaxTokens and Temperature are pointers so an explicit zero survives; nil means default.
type Options struct {
	Provider    Provider
	BaseURL     string
	Model       string
	APIKey      string
	MaxTokens   *int
	Temperature *float64
}

// Usage is the token accounting reported by the backend.
type Usage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// ChatResult is the normalized output of a non-streaming chat completion.
type ChatResult struct {
	Content string `json:"content"`
	Model   string `json:"model"`
	Usage   *Usage `json:"usage,omitempty"`
}

// Status is the outcome of a connectivity probe.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// TestResult reports a single connectivity probe. It is created per call and never persisted.
type TestResult struct {
	Status    Status `json:"status"`
	LatencyMs int64  `json:"latencyMs"`
	Model     string `json:"model"`
	Message   string `json:"message"`
}

// IntPtr and Float64Ptr build optional Options fields inline.
func IntPtr(v int) *int { return &v }

func Float64Ptr(v float64) *float64 { return &v }
