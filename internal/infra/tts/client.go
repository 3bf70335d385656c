package tts

import (
	"bytes"
	"context"
	"encoding/base64"
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

	defaultLanguage    = "en"
	defaultContentType = "audio/wav"
	defaultCloneMsg    = "Voice registered successfully"

	pathSpeak    = "/api/tts"
	pathClone    = "/api/tts/clone"
	pathSpeakers = "/api/tts/speakers"

	maxErrorBodyBytes = 2048
)

// Timeouts are the per-call deadlines. Synthesis is slow on CPU-only hosts.
type Timeouts struct {
	Liveness  time.Duration
	Speakers  time.Duration
	Synthesis time.Duration
}

// DefaultTimeouts returns 15s liveness, 10s speaker listing and 120s speak/clone.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Liveness:  15 * time.Second,
		Speakers:  10 * time.Second,
		Synthesis: 120 * time.Second,
	}
}

// Client talks to any server implementing the four TTS endpoints.
type Client struct {
	httpClient *http.Client
	timeouts   Timeouts
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeouts overrides the per-call deadlines; zero fields keep their defaults.
func WithTimeouts(t Timeouts) ClientOption {
	return func(c *Client) {
		if t.Liveness > 0 {
			c.timeouts.Liveness = t.Liveness
		}
		if t.Speakers > 0 {
			c.timeouts.Speakers = t.Speakers
		}
		if t.Synthesis > 0 {
			c.timeouts.Synthesis = t.Synthesis
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

// NewClient creates a Client with DefaultTimeouts.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeouts:   DefaultTimeouts(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ─── wire types ──────────────────────────────────────────────────────────────

type speakBody struct {
	Text      string `json:"text"`
	Language  string `json:"language"`
	SpeakerID string `json:"speaker_id,omitempty"`
}

type cloneBody struct {
	AudioBase64 string `json:"audio_base64"`
	VoiceName   string `json:"voice_name"`
	Language    string `json:"language"`
}

type cloneResponse struct {
	SnakeSpeakerID any    `json:"speaker_id"`
	CamelSpeakerID any    `json:"speakerId"`
	Message        string `json:"message"`
}

// ─── operations ──────────────────────────────────────────────────────────────

// Speak synthesizes req.Text and returns the audio base64-encoded.
func (c *Client) Speak(ctx context.Context, req SpeakRequest, opts Options) (*SpeakResult, error) {
	start := time.Now()
	body := speakBody{
		Text:      req.Text,
		Language:  orDefault(req.Language, defaultLanguage),
		SpeakerID: req.SpeakerID,
	}

	resp, cancel, err := c.postJSON(ctx, opts.ServerURL, pathSpeak, body)
	if err != nil {
		return nil, fmt.Errorf("TTS speak failed: %w", err)
	}
	defer cancel()
	defer resp.Body.Close() //nolint:errcheck

	if !isSuccess(resp.StatusCode) {
		return nil, &StatusError{Op: "TTS speak", StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("TTS speak failed: read audio: %w", err)
	}
	elapsed := time.Since(start)
	c.logger.DebugContext(ctx, "tts speak", "bytes", len(audio), "elapsed", elapsed)

	return &SpeakResult{
		AudioBase64: base64.StdEncoding.EncodeToString(audio),
		ContentType: orDefault(resp.Header.Get(headerContentType), defaultContentType),
		DurationMs:  elapsed.Milliseconds(),
		Audio:       audio,
	}, nil
}

// CloneVoice registers a voice from an audio sample.
// A 2xx answer without a string speaker id is still a failure (ErrMissingSpeakerID).
func (c *Client) CloneVoice(ctx context.Context, req CloneRequest, opts Options) (*CloneResult, error) {
	body := cloneBody{
		AudioBase64: req.AudioBase64,
		VoiceName:   req.VoiceName,
		Language:    orDefault(req.Language, defaultLanguage),
	}

	resp, cancel, err := c.postJSON(ctx, opts.ServerURL, pathClone, body)
	if err != nil {
		return nil, fmt.Errorf("Voice cloning failed: %w", err) //nolint:staticcheck
	}
	defer cancel()
	defer resp.Body.Close() //nolint:errcheck

	if !isSuccess(resp.StatusCode) {
		return nil, &StatusError{Op: "Voice cloning", StatusCode: resp.StatusCode, Body: readErrorBody(resp)}
	}

	var out cloneResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr)
	}
	speakerID := firstString(out.SnakeSpeakerID, out.CamelSpeakerID)
	if speakerID == "" {
		return nil, ErrMissingSpeakerID
	}
	c.logger.DebugContext(ctx, "tts clone", "voice", req.VoiceName, "speaker_id", speakerID)

	return &CloneResult{
		SpeakerID: speakerID,
		VoiceName: req.VoiceName,
		Message:   orDefault(out.Message, defaultCloneMsg),
	}, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// postJSON sends a POST with the synthesis timeout. The caller must close the body and then call cancel.
func (c *Client) postJSON(ctx context.Context, serverURL, path string, payload any) (*http.Response, context.CancelFunc, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Synthesis)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, normalizeURL(serverURL)+path, bytes.NewReader(b))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}

// get issues a GET bounded by timeout. The caller must close the body and then call cancel.
func (c *Client) get(ctx context.Context, target string, timeout time.Duration) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}

func normalizeURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// firstString returns the first candidate that is a non-empty JSON string.
func firstString(candidates ...any) string {
	for _, c := range candidates {
		if s, ok := c.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func readErrorBody(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes)) //nolint:errcheck
	if text := strings.TrimSpace(string(b)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
