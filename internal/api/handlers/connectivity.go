package handlers

import (
	"context"
	"net/http"

	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
)

// ConnectivityService is satisfied by *connectivity.Service.
type ConnectivityService interface {
	TestLLM(ctx context.Context, opts llm.Options) (llm.TestResult, error)
	Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.ChatResult, error)
	TestTTS(ctx context.Context, opts tts.Options) (tts.TestResult, error)
	Speak(ctx context.Context, req tts.SpeakRequest, opts tts.Options) (*tts.SpeakResult, error)
	CloneVoice(ctx context.Context, req tts.CloneRequest, opts tts.Options) (*tts.CloneResult, error)
}

type ConnectivityHandler struct {
	service ConnectivityService
}

func NewConnectivityHandler(service ConnectivityService) *ConnectivityHandler {
	return &ConnectivityHandler{service: service}
}

type llmOptionsRequest struct {
	Provider    string   `json:"provider"`
	BaseURL     string   `json:"baseUrl"`
	Model       string   `json:"model"`
	APIKey      string   `json:"apiKey"`
	MaxTokens   *int     `json:"maxTokens"`
	Temperature *float64 `json:"temperature"`
}

func (r llmOptionsRequest) options() llm.Options {
	return llm.Options{
		Provider:    llm.Provider(r.Provider),
		BaseURL:     r.BaseURL,
		Model:       r.Model,
		APIKey:      r.APIKey,
		MaxTokens:   r.MaxTokens,
		Temperature: r.Temperature,
	}
}

type chatRequest struct {
	llmOptionsRequest
	Messages []llm.Message `json:"messages"`
}

type ttsTestRequest struct {
	ServerURL string `json:"serverUrl"`
}

type speakRequest struct {
	Text      string `json:"text"`
	SpeakerID string `json:"speakerId"`
	Language  string `json:"language"`
	ServerURL string `json:"serverUrl"`
}

type speakResponse struct {
	*tts.SpeakResult
	Message string `json:"message"`
}

type cloneRequest struct {
	AudioBase64 string `json:"audioBase64"`
	VoiceName   string `json:"voiceName"`
	Language    string `json:"language"`
	ServerURL   string `json:"serverUrl"`
}

// ─── LLM ─────────────────────────────────────────────────────────────────────

// Chat handles POST /api/llm/chat.
func (h *ConnectivityHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.Chat(r.Context(), req.Messages, req.options())
	if err != nil {
		writeConnectivityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// TestLLM handles POST /api/llm/test-connection. Upstream failures come back as a
// 200 with status "error" in the body.
func (h *ConnectivityHandler) TestLLM(w http.ResponseWriter, r *http.Request) {
	var req llmOptionsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.TestLLM(r.Context(), req.options())
	if err != nil {
		writeConnectivityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── TTS ─────────────────────────────────────────────────────────────────────

// TestTTS handles POST /api/tts/test-connection.
func (h *ConnectivityHandler) TestTTS(w http.ResponseWriter, r *http.Request) {
	var req ttsTestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.TestTTS(r.Context(), tts.Options{ServerURL: req.ServerURL})
	if err != nil {
		writeConnectivityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Speak handles POST /api/tts/speak.
func (h *ConnectivityHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req speakRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.Speak(r.Context(),
		tts.SpeakRequest{Text: req.Text, SpeakerID: req.SpeakerID, Language: req.Language},
		tts.Options{ServerURL: req.ServerURL},
	)
	if err != nil {
		writeConnectivityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, speakResponse{SpeakResult: res, Message: "Audio generated successfully"})
}

// Clone handles POST /api/tts/clone.
func (h *ConnectivityHandler) Clone(w http.ResponseWriter, r *http.Request) {
	var req cloneRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.service.CloneVoice(r.Context(),
		tts.CloneRequest{AudioBase64: req.AudioBase64, VoiceName: req.VoiceName, Language: req.Language},
		tts.Options{ServerURL: req.ServerURL},
	)
	if err != nil {
		writeConnectivityError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
