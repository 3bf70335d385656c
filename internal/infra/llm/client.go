// Package llm: OpenAI-style chat client.
// One POST per call, no retries. Endpoints used:
//   - POST {base}/v1/chat/completions                                  (ollama, llama-cpp, openai, custom)
//   - POST {base}/openai/deployments/{model}/chat/completions?api-version=...   (azure)
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	defaultChatTimeout = 30 * time.Second
	defaultMaxTokens   = 2048
	defaultTemperature = 0.7

	// maxErrorBodyBytes bounds how much of a failed response is echoed back to the caller.
	maxErrorBodyBytes = 2048
)

// Client sends chat completions to any supported provider.
// It holds no per-backend state: the backend is chosen by the Options of each call.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout overrides the 30s per-call timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a Client with a 30s per-call timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    defaultChatTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─── wire types ──────────────────────────────────────────────────────────────

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Stream      bool      `json:"stream"`
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// ─── operations ──────────────────────────────────────────────────────────────

// ChatCompletion sends messages to the backend described by opts and returns the first choice.
//
// Errors: *RequestError for a non-2xx status, ErrNoChoices for an empty choices array,
// ErrMalformedResponse for an undecodable body; transport failures and timeouts are
// returned wrapped with their original message.
func (c *Client) ChatCompletion(ctx context.Context, messages []Message, opts Options) (*ChatResult, error) {
	endpoint, err := buildChatURL(opts)
	if err != nil {
		return nil, err
	}
	headers, err := buildHeaders(opts)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(buildChatRequest(messages, opts))
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("LLM request failed: build request: %w", err)
	}
	req.Header = headers

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "llm chat completion failed", "provider", opts.Provider, "model", opts.Model, "error", err)
		return nil, fmt.Errorf("LLM request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.logger.DebugContext(ctx, "llm chat completion",
		"provider", opts.Provider, "model", opts.Model,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RequestError{StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	var out chatCompletionResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	return toChatResult(out, opts.Model)
}

// buildChatRequest applies the max_tokens / temperature defaults.
func buildChatRequest(messages []Message, opts Options) chatCompletionRequest {
	req := chatCompletionRequest{
		Model:       opts.Model,
		Messages:    messages,
		MaxTokens:   defaultMaxTokens,
		Temperature: defaultTemperature,
		Stream:      false,
	}
	if req.Messages == nil {
		req.Messages = []Message{}
	}
	if opts.MaxTokens != nil {
		req.MaxTokens = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
	}
	return req
}

func toChatResult(out chatCompletionResponse, requestedModel string) (*ChatResult, error) {
	if len(out.Choices) == 0 {
		return nil, ErrNoChoices
	}
	res := &ChatResult{
		Content: out.Choices[0].Message.Content,
		Model:   out.Model,
	}
	if res.Model == "" {
		res.Model = requestedModel
	}
	if out.Usage != nil {
		res.Usage = &Usage{
			PromptTokens:     out.Usage.PromptTokens,
			CompletionTokens: out.Usage.CompletionTokens,
			TotalTokens:      out.Usage.TotalTokens,
		}
	}
	return res, nil
}

// readErrorBody returns the truncated response body, or the status text when the body is empty.
func readErrorBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes)) //nolint:errcheck
	if text := strings.TrimSpace(string(b)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
