package designer

import (
	"context"
	"errors"
	"net/http"

	"github.com/jmylchreest/uiforge/pkg/llm"
)

// Kind classifies a failed generation.
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindRateLimited    Kind = "rate_limited"
	KindUpstreamAuth   Kind = "upstream_auth"
	KindUpstream       Kind = "upstream"
	KindNoMarkup       Kind = "no_markup"
)

// Status returns the HTTP status code callers should report for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidRequest:
		return http.StatusBadRequest
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Debug is attached to errors raised after the model answered.
type Debug struct {
	RawResponse string `json:"rawResponse" yaml:"raw_response"`
	CleanedCode string `json:"cleanedCode" yaml:"cleaned_code"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty"`
	Provider    string `json:"provider,omitempty" yaml:"provider,omitempty"`
}

// Error is returned by Designer.Generate. Use errors.As to inspect it.
type Error struct {
	Kind    Kind
	Message string
	Debug   *Debug
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status returns the HTTP status code for the error.
func (e *Error) Status() int {
	return e.Kind.Status()
}

// ErrorBody is the wire form of a failure: {error, debug}.
type ErrorBody struct {
	Error string `json:"error" yaml:"error"`
	Debug *Debug `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// Response returns the body reported to callers.
func (e *Error) Response() ErrorBody {
	return ErrorBody{Error: e.Message, Debug: e.Debug}
}

// AsError converts any error into an *Error, classifying unknown errors as upstream failures.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	return fromProviderError(err)
}

func fromProviderError(err error) *Error {
	switch {
	case errors.Is(err, llm.ErrRateLimited):
		return &Error{Kind: KindRateLimited, Message: "Rate limit exceeded. Please try again later.", Err: err}
	case errors.Is(err, llm.ErrUnauthorized):
		return &Error{Kind: KindUpstreamAuth, Message: "Invalid API key or authentication failed.", Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindUpstream, Message: "Timed out waiting for the model.", Err: err}
	default:
		return &Error{Kind: KindUpstream, Message: "Failed to generate design.", Err: err}
	}
}
