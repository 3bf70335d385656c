// Package connectivity is the single entry point for every outbound LLM and TTS call made on
// behalf of a user. It validates input and the target URL, delegates to the protocol clients,
// classifies upstream failures and announces generated audio on the event bus.
package connectivity

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mukundajmera/AwaazTwin/internal/infra/eventbus"
	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
	"github.com/mukundajmera/AwaazTwin/internal/validation"
	"github.com/mukundajmera/AwaazTwin/pkg/uuid"
)

// ChatBackend is the subset of *llm.Client the service needs.
type ChatBackend interface {
	ChatCompletion(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.ChatResult, error)
	TestConnection(ctx context.Context, opts llm.Options) llm.TestResult
}

// SpeechBackend is the subset of *tts.Client the service needs.
type SpeechBackend interface {
	Speak(ctx context.Context, req tts.SpeakRequest, opts tts.Options) (*tts.SpeakResult, error)
	CloneVoice(ctx context.Context, req tts.CloneRequest, opts tts.Options) (*tts.CloneResult, error)
	TestConnection(ctx context.Context, opts tts.Options) tts.TestResult
}

// Service validates and forwards connectivity requests.
type Service struct {
	chat       ChatBackend
	speech     SpeechBackend
	production bool
	events     eventbus.Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewService wires the service. events may be nil, in which case nothing is published.
func NewService(chat ChatBackend, speech SpeechBackend, production bool, events eventbus.Publisher) *Service {
	return &Service{
		chat:       chat,
		speech:     speech,
		production: production,
		events:     events,
		logger:     slog.Default(),
		now:        time.Now,
	}
}

// WithLogger returns the service with a different logger.
func (s *Service) WithLogger(l *slog.Logger) *Service {
	if l != nil {
		s.logger = l
	}
	return s
}

// ProductionMode reports whether loopback and private targets are refused.
func (s *Service) ProductionMode() bool { return s.production }

// ValidateURL applies the server-URL guard with the service's mode.
func (s *Service) ValidateURL(raw string) error {
	if err := validation.ValidateServerURL(raw, s.production); err != nil {
		return &unsafeURLError{err: err}
	}
	return nil
}

// ─── LLM ─────────────────────────────────────────────────────────────────────

// TestLLM probes an LLM backend. The error is non-nil only for invalid input or an unsafe URL;
// upstream failures are reported inside the result.
func (s *Service) TestLLM(ctx context.Context, opts llm.Options) (llm.TestResult, error) {
	if opts.BaseURL == "" || opts.Model == "" {
		return llm.TestResult{}, invalid("baseUrl and model are required")
	}
	opts, err := s.checkLLMOptions(opts)
	if err != nil {
		return llm.TestResult{}, err
	}
	res := s.chat.TestConnection(ctx, opts)
	s.logger.InfoContext(ctx, "llm probe", "provider", opts.Provider, "status", res.Status, "latency_ms", res.LatencyMs)
	return res, nil
}

// Chat runs one non-streaming chat completion.
func (s *Service) Chat(ctx context.Context, messages []llm.Message, opts llm.Options) (*llm.ChatResult, error) {
	if len(messages) == 0 || opts.BaseURL == "" || opts.Model == "" {
		return nil, invalid("messages, baseUrl, and model are required")
	}
	for i, m := range messages {
		if !validation.IsValidChatRole(m.Role) {
			return nil, invalid(fmt.Sprintf("messages[%d].role must be one of: %s", i, validation.ChatRolesList))
		}
		if strings.TrimSpace(m.Content) == "" {
			return nil, invalid(fmt.Sprintf("messages[%d].content must not be empty", i))
		}
	}
	opts, err := s.checkLLMOptions(opts)
	if err != nil {
		return nil, err
	}

	res, err := s.chat.ChatCompletion(ctx, messages, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "llm chat failed", "provider", opts.Provider, "error", err)
		return nil, classify(err)
	}
	return res, nil
}

func (s *Service) checkLLMOptions(opts llm.Options) (llm.Options, error) {
	if opts.Provider == "" {
		opts.Provider = llm.ProviderOllama
	}
	if !validation.IsValidProvider(string(opts.Provider)) {
		return opts, invalid("provider must be one of: " + validation.ProvidersList)
	}
	if validation.RequiresAPIKey(string(opts.Provider)) && opts.APIKey == "" {
		return opts, invalid(fmt.Sprintf("apiKey is required for provider %s", opts.Provider))
	}
	if opts.Temperature != nil && !validation.IsTemperatureValid(*opts.Temperature) {
		return opts, invalid("temperature must be between 0 and 2")
	}
	if opts.MaxTokens != nil && !validation.IsMaxTokensValid(*opts.MaxTokens) {
		return opts, invalid("maxTokens must be between 1 and 32768")
	}
	return opts, s.ValidateURL(opts.BaseURL)
}

// ─── TTS ─────────────────────────────────────────────────────────────────────

// TestTTS probes a TTS server. Same error contract as TestLLM.
func (s *Service) TestTTS(ctx context.Context, opts tts.Options) (tts.TestResult, error) {
	if opts.ServerURL == "" {
		return tts.TestResult{}, invalid("serverUrl is required")
	}
	if err := s.ValidateURL(opts.ServerURL); err != nil {
		return tts.TestResult{}, err
	}
	res := s.speech.TestConnection(ctx, opts)
	s.logger.InfoContext(ctx, "tts probe", "status", res.Status, "latency_ms", res.LatencyMs)
	return res, nil
}

// Speak synthesizes speech and publishes the audio for archiving.
func (s *Service) Speak(ctx context.Context, req tts.SpeakRequest, opts tts.Options) (*tts.SpeakResult, error) {
	if req.Text == "" || opts.ServerURL == "" {
		return nil, invalid("text and serverUrl are required")
	}
	if utf8.RuneCountInString(req.Text) > validation.MaxTTSTextLength {
		return nil, invalid(fmt.Sprintf("text must be at most %d characters", validation.MaxTTSTextLength))
	}
	if err := s.ValidateURL(opts.ServerURL); err != nil {
		return nil, err
	}

	res, err := s.speech.Speak(ctx, req, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "tts speak failed", "error", err)
		return nil, classify(err)
	}
	s.publish(eventbus.TopicAudioGenerated, eventbus.AudioGenerated{
		ID:          uuid.NewV7(),
		Text:        req.Text,
		SpeakerID:   req.SpeakerID,
		ContentType: res.ContentType,
		Audio:       res.Audio,
		CreatedAt:   s.now().UTC(),
	})
	return res, nil
}

// CloneVoice registers a new voice and publishes the reference sample for archiving.
func (s *Service) CloneVoice(ctx context.Context, req tts.CloneRequest, opts tts.Options) (*tts.CloneResult, error) {
	if req.AudioBase64 == "" || req.VoiceName == "" || opts.ServerURL == "" {
		return nil, invalid("audioBase64, voiceName, and serverUrl are required")
	}
	if len(req.AudioBase64) > validation.MaxAudioBase64Length {
		return nil, invalid("audioBase64 exceeds the 10 MiB limit")
	}
	if err := s.ValidateURL(opts.ServerURL); err != nil {
		return nil, err
	}

	res, err := s.speech.CloneVoice(ctx, req, opts)
	if err != nil {
		s.logger.WarnContext(ctx, "voice clone failed", "voice", req.VoiceName, "error", err)
		return nil, classify(err)
	}
	s.publish(eventbus.TopicVoiceCloned, eventbus.VoiceCloned{
		SpeakerID: res.SpeakerID,
		VoiceName: res.VoiceName,
		Audio:     decodeSample(req.AudioBase64),
		CreatedAt: s.now().UTC(),
	})
	return res, nil
}

func (s *Service) publish(topic string, payload any) {
	if s.events == nil {
		return
	}
	s.events.Publish(topic, payload)
}

// decodeSample accepts raw base64 or a data URL; undecodable input yields nil.
func decodeSample(b64 string) []byte {
	if i := strings.Index(b64, ";base64,"); i >= 0 && strings.HasPrefix(b64, "data:") {
		b64 = b64[i+len(";base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil
	}
	return raw
}
