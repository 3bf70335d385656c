package connectivity

import (
	"errors"

	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
)

// Sentinels for the caller-side failure classes. Match with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnsafeURL         = errors.New("unsafe server url")
	ErrUpstreamTransport = errors.New("upstream transport error")
	ErrUpstreamProtocol  = errors.New("upstream protocol error")
)

// inputError carries a client-facing message and matches ErrInvalidInput.
type inputError struct{ msg string }

func (e *inputError) Error() string        { return e.msg }
func (e *inputError) Is(target error) bool { return target == ErrInvalidInput }

func invalid(msg string) error { return &inputError{msg: msg} }

// unsafeURLError wraps a validation failure; the validator's message is kept verbatim.
type unsafeURLError struct{ err error }

func (e *unsafeURLError) Error() string        { return e.err.Error() }
func (e *unsafeURLError) Unwrap() error        { return e.err }
func (e *unsafeURLError) Is(target error) bool { return target == ErrUnsafeURL }

// UpstreamKind separates "could not talk to the backend" from "the backend answered badly".
type UpstreamKind int

const (
	Transport UpstreamKind = iota
	Protocol
)

func (k UpstreamKind) String() string {
	if k == Protocol {
		return "protocol"
	}
	return "transport"
}

// UpstreamError is returned for every failure that happened after the request left this process.
// Error() is the underlying message so handlers can echo it unchanged.
type UpstreamError struct {
	Kind UpstreamKind
	Err  error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

func (e *UpstreamError) Is(target error) bool {
	switch target {
	case ErrUpstreamTransport:
		return e.Kind == Transport
	case ErrUpstreamProtocol:
		return e.Kind == Protocol
	}
	return false
}

// classify wraps a client error in an UpstreamError of the right kind.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var (
		llmStatus *llm.RequestError
		ttsStatus *tts.StatusError
	)
	switch {
	case errors.As(err, &llmStatus),
		errors.As(err, &ttsStatus),
		errors.Is(err, llm.ErrNoChoices),
		errors.Is(err, llm.ErrMalformedResponse),
		errors.Is(err, tts.ErrMissingSpeakerID),
		errors.Is(err, tts.ErrMalformedResponse):
		return &UpstreamError{Kind: Protocol, Err: err}
	default:
		return &UpstreamError{Kind: Transport, Err: err}
	}
}
