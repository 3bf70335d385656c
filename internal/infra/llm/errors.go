package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoChoices is returned when a 2xx response carries an empty choices array.
	ErrNoChoices = errors.New("LLM returned no choices")
	// ErrMalformedResponse is returned when a 2xx response body is not the expected JSON.
	ErrMalformedResponse = errors.New("LLM returned a malformed response")
	// ErrUnknownProvider is returned for a provider outside AllProviders.
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// RequestError is a non-2xx answer from the LLM backend.
type RequestError struct {
	StatusCode int
	Body       string // response body, truncated; status text when the body was empty
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("LLM request failed (%d): %s", e.StatusCode, e.Body)
}
