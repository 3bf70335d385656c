// Package mcpserver exposes the portal's connectivity checks and catalogues as MCP tools,
// so an assistant can validate a backend the same way the settings page does.
package mcpserver

import (
	"cmp"
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mukundajmera/AwaazTwin/internal/domain/content"
	"github.com/mukundajmera/AwaazTwin/internal/domain/testrun"
	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
	"github.com/mukundajmera/AwaazTwin/internal/version"
)

// Connectivity is satisfied by *connectivity.Service.
type Connectivity interface {
	ValidateURL(raw string) error
	ProductionMode() bool
	TestLLM(ctx context.Context, opts llm.Options) (llm.TestResult, error)
	TestTTS(ctx context.Context, opts tts.Options) (tts.TestResult, error)
}

type Topics interface {
	AllTopics() ([]content.Topic, error)
}

type Suites interface {
	Suites() []testrun.Suite
}

// Deps wires the tools. LLMDefaults and TTSDefaults fill any connection field a tool call
// leaves empty.
type Deps struct {
	Connectivity Connectivity
	Content      Topics
	Tests        Suites
	LLMDefaults  llm.Options
	TTSDefaults  tts.Options
}

// ─── tool inputs and outputs ────────────────────────────────────────────────

type validateURLInput struct {
	URL string `json:"url" jsonschema:"the server URL to check"`
}

type validateURLOutput struct {
	Valid      bool   `json:"valid"`
	Production bool   `json:"production"`
	Error      string `json:"error,omitempty"`
}

type testLLMInput struct {
	Provider string `json:"provider,omitempty" jsonschema:"ollama, llama-cpp, openai, azure or custom; defaults to the configured provider"`
	BaseURL  string `json:"baseUrl,omitempty" jsonschema:"backend base URL; defaults to the configured one"`
	Model    string `json:"model,omitempty" jsonschema:"model or Azure deployment name; defaults to the configured one"`
	APIKey   string `json:"apiKey,omitempty" jsonschema:"API key, required for openai and azure"`
}

type testTTSInput struct {
	ServerURL string `json:"serverUrl,omitempty" jsonschema:"TTS server base URL; defaults to the configured one"`
}

type listTopicsOutput struct {
	Topics []content.Topic `json:"topics"`
}

type listSuitesOutput struct {
	Suites []testrun.Suite `json:"suites"`
}

// New builds the MCP server with every tool registered.
func New(deps Deps) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: version.Name, Version: version.Version}, nil)
	t := &tools{deps: deps}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_server_url",
		Description: "Check whether a backend URL would be accepted by the portal's SSRF guard.",
	}, t.validateServerURL)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "test_llm_connection",
		Description: "Send a one-line probe chat completion to an LLM backend and report latency.",
	}, t.testLLMConnection)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "test_tts_connection",
		Description: "Probe a TTS server root and list its available speakers.",
	}, t.testTTSConnection)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_topics",
		Description: "List the portal's documentation topics.",
	}, t.listTopics)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_test_suites",
		Description: "List the test suites the portal can run.",
	}, t.listTestSuites)

	return server
}

// Run serves the tools over stdin/stdout until ctx is cancelled or the client disconnects.
func Run(ctx context.Context, deps Deps) error {
	return New(deps).Run(ctx, &mcp.StdioTransport{})
}

type tools struct {
	deps Deps
}

func (t *tools) validateServerURL(_ context.Context, _ *mcp.CallToolRequest, in validateURLInput) (*mcp.CallToolResult, validateURLOutput, error) {
	out := validateURLOutput{Valid: true, Production: t.deps.Connectivity.ProductionMode()}
	if err := t.deps.Connectivity.ValidateURL(in.URL); err != nil {
		out.Valid = false
		out.Error = err.Error()
	}
	return nil, out, nil
}

func (t *tools) testLLMConnection(ctx context.Context, _ *mcp.CallToolRequest, in testLLMInput) (*mcp.CallToolResult, llm.TestResult, error) {
	res, err := t.deps.Connectivity.TestLLM(ctx, t.llmOptions(in))
	return nil, res, err
}

// llmOptions overlays the call's arguments on the configured defaults. The configured API key
// is only reused when the call targets the configured backend.
func (t *tools) llmOptions(in testLLMInput) llm.Options {
	def := t.deps.LLMDefaults
	opts := llm.Options{
		Provider:    llm.Provider(cmp.Or(in.Provider, string(def.Provider))),
		BaseURL:     cmp.Or(in.BaseURL, def.BaseURL),
		Model:       cmp.Or(in.Model, def.Model),
		APIKey:      in.APIKey,
		MaxTokens:   def.MaxTokens,
		Temperature: def.Temperature,
	}
	if opts.APIKey == "" && opts.BaseURL == def.BaseURL {
		opts.APIKey = def.APIKey
	}
	return opts
}

func (t *tools) testTTSConnection(ctx context.Context, _ *mcp.CallToolRequest, in testTTSInput) (*mcp.CallToolResult, tts.TestResult, error) {
	opts := tts.Options{ServerURL: cmp.Or(in.ServerURL, t.deps.TTSDefaults.ServerURL)}
	res, err := t.deps.Connectivity.TestTTS(ctx, opts)
	return nil, res, err
}

func (t *tools) listTopics(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, listTopicsOutput, error) {
	topics, err := t.deps.Content.AllTopics()
	if err != nil {
		return nil, listTopicsOutput{}, err
	}
	return nil, listTopicsOutput{Topics: topics}, nil
}

func (t *tools) listTestSuites(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, listSuitesOutput, error) {
	return nil, listSuitesOutput{Suites: t.deps.Tests.Suites()}, nil
}
