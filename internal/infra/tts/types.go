// Package tts wraps the Coqui-style TTS HTTP service (XTTS / Bark) behind typed calls.
// Endpoints used:
//   - GET  {base}/                  liveness
//   - GET  {base}/api/tts/speakers  optional speaker listing
//   - POST {base}/api/tts           synthesis, returns raw audio bytes
//   - POST {base}/api/tts/clone     registers a cloned voice from a sample
package tts

// Options selects the TTS server for one call.
type Options struct {
	ServerURL string
}

// SpeakRequest is the input for a synthesis call. Text length is bounded by the caller.
type SpeakRequest struct {
	Text      string
	SpeakerID string
	Language  string
}

// SpeakResult carries the synthesized audio.
type SpeakResult struct {
	AudioBase64 string `json:"audioBase64"`
	ContentType string `json:"contentType"`
	DurationMs  int64  `json:"durationMs"`
	// Audio is the raw body, kept for archiving; never serialized.
	Audio []byte `json:"-"`
}

// CloneRequest registers a new voice from a base64 audio sample. Sample size is bounded by the caller.
type CloneRequest struct {
	AudioBase64 string
	VoiceName   string
	Language    string
}

// CloneResult identifies the registered voice.
type CloneResult struct {
	SpeakerID string `json:"speakerId"`
	VoiceName string `json:"voiceName"`
	Message   string `json:"message"`
}

// Status is the outcome of a connectivity probe.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "error"
)

// TestResult reports a single TTS connectivity probe.
type TestResult struct {
	Status          Status   `json:"status"`
	LatencyMs       int64    `json:"latencyMs"`
	ServerURL       string   `json:"serverUrl"`
	AvailableModels []string `json:"availableModels"`
	Message         string   `json:"message"`
}
