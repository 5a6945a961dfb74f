package llm

import (
	"context"
	"time"

	"github.com/jmylchreest/uiforge/internal/logger"
)

// Observer receives a notification after every provider call, successful or not.
// Implementations should return quickly; they run on the caller's goroutine.
type Observer interface {
	OnCall(ctx context.Context, event CallEvent)
}

// CallEvent describes one provider call.
type CallEvent struct {
	Provider string
	Model    string

	// Messages sent to the provider.
	Messages []Message

	// Response is nil when the call failed.
	Response *Response

	// Err is nil on success.
	Err error

	// Attempt number (0 = first attempt, 1 = first retry, etc.)
	Attempt int

	StartedAt time.Time
	Duration  time.Duration
}

// ObserverFunc is a convenience type for using a function as an Observer.
type ObserverFunc func(ctx context.Context, event CallEvent)

// OnCall implements Observer.
func (f ObserverFunc) OnCall(ctx context.Context, event CallEvent) {
	f(ctx, event)
}

// MultiObserver combines multiple observers into one.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates an observer that dispatches to every non-nil observer.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	m := &MultiObserver{}
	for _, o := range observers {
		m.Add(o)
	}
	return m
}

// OnCall dispatches the event to all registered observers.
func (m *MultiObserver) OnCall(ctx context.Context, event CallEvent) {
	for _, obs := range m.observers {
		obs.OnCall(ctx, event)
	}
}

// Add adds an observer to the multi-observer.
func (m *MultiObserver) Add(obs Observer) {
	if obs != nil {
		m.observers = append(m.observers, obs)
	}
}

// LogObserver writes one debug record per call through the package logger.
// Failed calls are logged at warn level.
type LogObserver struct{}

// OnCall implements Observer.
func (LogObserver) OnCall(ctx context.Context, event CallEvent) {
	if event.Err != nil {
		logger.WarnContext(ctx, "llm call failed",
			"provider", event.Provider,
			"model", event.Model,
			"attempt", event.Attempt,
			"duration", event.Duration,
			"error", event.Err)
		return
	}

	args := []any{
		"provider", event.Provider,
		"model", event.Model,
		"attempt", event.Attempt,
		"duration", event.Duration,
	}
	if r := event.Response; r != nil {
		args = append(args,
			"response_model", r.Model,
			"input_tokens", r.Usage.InputTokens,
			"output_tokens", r.Usage.OutputTokens,
			"finish_reason", r.FinishReason)
	}
	logger.DebugContext(ctx, "llm call", args...)
}

// Observe runs p.Execute and reports the call to obs (which may be nil).
func Observe(ctx context.Context, p Provider, req Request, attempt int, obs Observer) (*Response, error) {
	start := time.Now()
	resp, err := p.Execute(ctx, req)
	if obs != nil {
		obs.OnCall(ctx, CallEvent{
			Provider:  p.Name(),
			Model:     p.Model(),
			Messages:  req.Messages,
			Response:  resp,
			Err:       err,
			Attempt:   attempt,
			StartedAt: start,
			Duration:  time.Since(start),
		})
	}
	return resp, err
}
