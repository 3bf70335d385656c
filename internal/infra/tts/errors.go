package tts

import (
	"errors"
	"fmt"
)

// ErrMissingSpeakerID is returned when the clone endpoint answers 2xx without a speaker id.
var ErrMissingSpeakerID = errors.New("Voice cloning failed: missing speaker id in successful response") //nolint:staticcheck

// ErrMalformedResponse is returned when a 2xx clone response is not JSON.
var ErrMalformedResponse = errors.New("TTS server returned a malformed response")

// StatusError is a non-2xx answer from the TTS server.
type StatusError struct {
	Op         string // "TTS speak" | "Voice cloning"
	StatusCode int
	Body       string // truncated body, or the status text when empty
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed (%d): %s", e.Op, e.StatusCode, e.Body)
}
