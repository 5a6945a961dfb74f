package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

var (
	// ErrRateLimited is returned when the upstream rejected the call with HTTP 429.
	ErrRateLimited = errors.New("rate limited by upstream")

	// ErrUnauthorized is returned when the upstream rejected the credentials (401/403).
	ErrUnauthorized = errors.New("upstream rejected credentials")

	// ErrEmptyResponse is returned when the upstream answered without any content.
	ErrEmptyResponse = errors.New("empty response from upstream")

	// ErrNoProviderAvailable is returned by an empty fallback chain.
	ErrNoProviderAvailable = errors.New("no provider available")
)

// StatusError is an upstream failure with a known HTTP status.
// It matches ErrRateLimited or ErrUnauthorized with errors.Is where the status
// maps to one, and unwraps to the underlying SDK error.
type StatusError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: upstream status %d: %v", e.Provider, e.StatusCode, e.Err)
}

// Unwrap returns the matching sentinel (if any) and the cause.
func (e *StatusError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if s := sentinelFor(e.StatusCode); s != nil {
		errs = append(errs, s)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func sentinelFor(status int) error {
	switch status {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

// StatusCode extracts the upstream HTTP status from err, or 0 if unknown.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	var oe *openai.Error
	if errors.As(err, &oe) {
		return oe.StatusCode
	}
	var ae *anthropic.Error
	if errors.As(err, &ae) {
		return ae.StatusCode
	}
	var ge genai.APIError
	if errors.As(err, &ge) {
		return ge.Code
	}
	var gp *genai.APIError
	if errors.As(err, &gp) && gp != nil {
		return gp.Code
	}
	return 0
}

// classify wraps an SDK or transport error so callers can match it with errors.Is.
func classify(provider string, err error) error {
	if err == nil {
		return nil
	}
	if status := StatusCode(err); status != 0 {
		return &StatusError{Provider: provider, StatusCode: status, Err: err}
	}
	return fmt.Errorf("%s: %w", provider, err)
}

// IsRetryable reports whether err is transient. Only rate limits are retried;
// auth failures and malformed output will not improve on a second attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited)
}
