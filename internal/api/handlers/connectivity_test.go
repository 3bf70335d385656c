package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mukundajmera/AwaazTwin/internal/domain/connectivity"
	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
)

type connectivityServiceStub struct {
	err error

	gotMessages []llm.Message
	gotLLM      llm.Options
	gotTTS      tts.Options
	gotSpeak    tts.SpeakRequest
	gotClone    tts.CloneRequest
}

func (s *connectivityServiceStub) TestLLM(_ context.Context, opts llm.Options) (llm.TestResult, error) {
	s.gotLLM = opts
	if s.err != nil {
		return llm.TestResult{}, s.err
	}
	return llm.TestResult{Status: llm.StatusOK, LatencyMs: 12, Model: opts.Model, Message: "Connected"}, nil
}

func (s *connectivityServiceStub) Chat(_ context.Context, messages []llm.Message, opts llm.Options) (*llm.ChatResult, error) {
	s.gotMessages, s.gotLLM = messages, opts
	if s.err != nil {
		return nil, s.err
	}
	return &llm.ChatResult{Content: "Hello!", Model: opts.Model}, nil
}

func (s *connectivityServiceStub) TestTTS(_ context.Context, opts tts.Options) (tts.TestResult, error) {
	s.gotTTS = opts
	if s.err != nil {
		return tts.TestResult{}, s.err
	}
	return tts.TestResult{Status: tts.StatusOK, ServerURL: opts.ServerURL, AvailableModels: []string{"xtts_v2"}}, nil
}

func (s *connectivityServiceStub) Speak(_ context.Context, req tts.SpeakRequest, opts tts.Options) (*tts.SpeakResult, error) {
	s.gotSpeak, s.gotTTS = req, opts
	if s.err != nil {
		return nil, s.err
	}
	return &tts.SpeakResult{AudioBase64: "UklGRg==", ContentType: "audio/wav", DurationMs: 40, Audio: []byte("RIFF")}, nil
}

func (s *connectivityServiceStub) CloneVoice(_ context.Context, req tts.CloneRequest, opts tts.Options) (*tts.CloneResult, error) {
	s.gotClone, s.gotTTS = req, opts
	if s.err != nil {
		return nil, s.err
	}
	return &tts.CloneResult{SpeakerID: "spk_1", VoiceName: req.VoiceName, Message: "Voice cloned successfully"}, nil
}

func postJSON(t *testing.T, h http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}

// ============================================================================
// LLM
// ============================================================================

func TestConnectivityHandler_Chat_OK(t *testing.T) {
	stub := &connectivityServiceStub{}
	h := NewConnectivityHandler(stub)

	rr := postJSON(t, h.Chat, "/api/llm/chat", `{
		"messages":[{"role":"user","content":"hi"}],
		"provider":"openai","baseUrl":"https://api.example.com","model":"gpt-4o","apiKey":"sk",
		"maxTokens":64,"temperature":0
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	body := decodeMap(t, rr)
	if body["content"] != "Hello!" || body["model"] != "gpt-4o" {
		t.Fatalf("unexpected body: %v", body)
	}
	if len(stub.gotMessages) != 1 || stub.gotMessages[0].Content != "hi" {
		t.Fatalf("messages not forwarded: %+v", stub.gotMessages)
	}
	if stub.gotLLM.Provider != llm.ProviderOpenAI || stub.gotLLM.APIKey != "sk" {
		t.Fatalf("options not forwarded: %+v", stub.gotLLM)
	}
	if stub.gotLLM.Temperature == nil || *stub.gotLLM.Temperature != 0 {
		t.Fatalf("explicit zero temperature lost: %+v", stub.gotLLM.Temperature)
	}
	if stub.gotLLM.MaxTokens == nil || *stub.gotLLM.MaxTokens != 64 {
		t.Fatalf("maxTokens lost: %+v", stub.gotLLM.MaxTokens)
	}
}

func TestConnectivityHandler_Chat_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid input", fmt.Errorf("wrap: %w", connectivity.ErrInvalidInput), http.StatusBadRequest},
		{"unsafe url", connectivity.ErrUnsafeURL, http.StatusBadRequest},
		{"upstream transport", &connectivity.UpstreamError{Kind: connectivity.Transport, Err: errors.New("dial tcp: connection refused")}, http.StatusBadGateway},
		{"upstream protocol", &connectivity.UpstreamError{Kind: connectivity.Protocol, Err: errors.New("LLM request failed (404): not found")}, http.StatusBadGateway},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewConnectivityHandler(&connectivityServiceStub{err: tc.err})
			rr := postJSON(t, h.Chat, "/api/llm/chat", `{"messages":[],"baseUrl":"x","model":"m"}`)
			if rr.Code != tc.code {
				t.Fatalf("expected %d, got %d body=%s", tc.code, rr.Code, rr.Body.String())
			}
			if _, ok := decodeMap(t, rr)["error"]; !ok {
				t.Fatalf("expected error field, got %s", rr.Body.String())
			}
		})
	}
}

func TestConnectivityHandler_UpstreamMessagePassedThrough(t *testing.T) {
	msg := "LLM request failed (404): model not found"
	h := NewConnectivityHandler(&connectivityServiceStub{err: &connectivity.UpstreamError{Kind: connectivity.Protocol, Err: errors.New(msg)}})
	rr := postJSON(t, h.Chat, "/api/llm/chat", `{}`)
	if got := decodeMap(t, rr)["error"]; got != msg {
		t.Fatalf("expected verbatim upstream message, got %v", got)
	}
}

func TestConnectivityHandler_InvalidBody(t *testing.T) {
	h := NewConnectivityHandler(&connectivityServiceStub{})
	rr := postJSON(t, h.Chat, "/api/llm/chat", `{not json`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if got := decodeMap(t, rr)["error"]; got != "invalid request body" {
		t.Fatalf("unexpected error: %v", got)
	}
}

func TestConnectivityHandler_BodyTooLarge(t *testing.T) {
	h := NewConnectivityHandler(&connectivityServiceStub{})
	body := `{"audioBase64":"` + strings.Repeat("A", 2048) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tts/clone", strings.NewReader(body))
	rr := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(rr, req.Body, 128)
	h.Clone(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rr.Code)
	}
}

func TestConnectivityHandler_TestLLM(t *testing.T) {
	stub := &connectivityServiceStub{}
	h := NewConnectivityHandler(stub)
	rr := postJSON(t, h.TestLLM, "/api/llm/test-connection", `{"baseUrl":"http://localhost:11434","model":"llama3.2"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeMap(t, rr)
	if body["status"] != "ok" || body["model"] != "llama3.2" {
		t.Fatalf("unexpected body: %v", body)
	}
	if stub.gotLLM.Provider != "" {
		t.Fatalf("handler must not pick a provider default, got %q", stub.gotLLM.Provider)
	}

	h = NewConnectivityHandler(&connectivityServiceStub{err: connectivity.ErrInvalidInput})
	if rr := postJSON(t, h.TestLLM, "/api/llm/test-connection", `{}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

// ============================================================================
// TTS
// ============================================================================

func TestConnectivityHandler_TestTTS(t *testing.T) {
	stub := &connectivityServiceStub{}
	h := NewConnectivityHandler(stub)
	rr := postJSON(t, h.TestTTS, "/api/tts/test-connection", `{"serverUrl":"http://localhost:5002"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if stub.gotTTS.ServerURL != "http://localhost:5002" {
		t.Fatalf("serverUrl not forwarded: %+v", stub.gotTTS)
	}
	if models, ok := decodeMap(t, rr)["availableModels"].([]any); !ok || len(models) != 1 {
		t.Fatalf("expected availableModels, got %s", rr.Body.String())
	}
}

func TestConnectivityHandler_Speak(t *testing.T) {
	stub := &connectivityServiceStub{}
	h := NewConnectivityHandler(stub)
	rr := postJSON(t, h.Speak, "/api/tts/speak", `{"text":"namaste","speakerId":"spk_1","language":"hi","serverUrl":"http://tts:5002"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	body := decodeMap(t, rr)
	if body["message"] != "Audio generated successfully" {
		t.Fatalf("missing success message: %v", body)
	}
	if body["audioBase64"] != "UklGRg==" || body["contentType"] != "audio/wav" {
		t.Fatalf("unexpected audio fields: %v", body)
	}
	if _, leaked := body["Audio"]; leaked {
		t.Fatalf("raw audio must not be serialized: %v", body)
	}
	if stub.gotSpeak.SpeakerID != "spk_1" || stub.gotSpeak.Language != "hi" {
		t.Fatalf("speak request not forwarded: %+v", stub.gotSpeak)
	}
}

func TestConnectivityHandler_Clone(t *testing.T) {
	stub := &connectivityServiceStub{}
	h := NewConnectivityHandler(stub)
	rr := postJSON(t, h.Clone, "/api/tts/clone", `{"audioBase64":"UklGRg==","voiceName":"Asha","serverUrl":"http://tts:5002"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := decodeMap(t, rr)
	if body["speakerId"] != "spk_1" || body["voiceName"] != "Asha" {
		t.Fatalf("unexpected body: %v", body)
	}

	msg := "Voice cloning failed (422): Unprocessable Entity"
	h = NewConnectivityHandler(&connectivityServiceStub{err: &connectivity.UpstreamError{Kind: connectivity.Protocol, Err: errors.New(msg)}})
	rr = postJSON(t, h.Clone, "/api/tts/clone", `{}`)
	if rr.Code != http.StatusBadGateway || decodeMap(t, rr)["error"] != msg {
		t.Fatalf("expected 502 %q, got %d %s", msg, rr.Code, rr.Body.String())
	}
}
