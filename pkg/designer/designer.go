// Package designer turns a natural-language UI description into an HTML
// fragment by prompting a language model and cleaning its answer.
//
//	d := designer.New(provider)
//	res, err := d.Generate(ctx, designer.Request{Prompt: "a pricing card"})
//	if err != nil {
//	    de := designer.AsError(err)
//	    // de.Status() is 400, 429 or 500; de.Response() is the {error, debug} body
//	}
package designer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jmylchreest/uiforge/internal/logger"
	"github.com/jmylchreest/uiforge/pkg/cleaner"
	"github.com/jmylchreest/uiforge/pkg/cleaner/markup"
	"github.com/jmylchreest/uiforge/pkg/llm"
)

// Result is a successful generation.
type Result struct {
	Explanation  string        `json:"explanation" yaml:"explanation"`
	Code         string        `json:"code" yaml:"code"`
	FullResponse string        `json:"fullResponse" yaml:"full_response"`
	Model        string        `json:"model,omitempty" yaml:"model,omitempty"`
	Provider     string        `json:"provider,omitempty" yaml:"provider,omitempty"`
	Usage        llm.Usage     `json:"usage" yaml:"usage"`
	Duration     time.Duration `json:"duration_ns" yaml:"duration"`
	RetryCount   int           `json:"retry_count" yaml:"retry_count"`
}

// String renders the explanation followed by the code.
func (r *Result) String() string {
	if r.Explanation == "" {
		return r.Code + "\n"
	}
	return r.Explanation + "\n\n" + r.Code + "\n"
}

// Designer runs design requests against a provider.
// It is safe for concurrent use.
type Designer struct {
	provider     llm.Provider
	preclean     cleaner.Cleaner
	cleaner      cleaner.Cleaner
	observer     llm.Observer
	limiter      *rate.Limiter
	maxRetries   int
	backoff      time.Duration
	maxTokens    int
	temperature  float64
	systemPrompt string
}

// Option configures a Designer.
type Option func(*Designer)

// WithCleaner replaces the cleaner applied to both answer sections.
func WithCleaner(c cleaner.Cleaner) Option {
	return func(d *Designer) {
		if c != nil {
			d.cleaner = c
		}
	}
}

// WithPreCleaner replaces the cleaner applied to the whole answer before it is
// split into explanation and code.
func WithPreCleaner(c cleaner.Cleaner) Option {
	return func(d *Designer) {
		if c != nil {
			d.preclean = c
		}
	}
}

// WithMaxRetries sets how often a rate-limited call is retried.
func WithMaxRetries(n int) Option {
	return func(d *Designer) {
		if n >= 0 {
			d.maxRetries = n
		}
	}
}

// WithBackoff sets the delay before the first retry. It doubles on each retry.
func WithBackoff(base time.Duration) Option {
	return func(d *Designer) {
		if base > 0 {
			d.backoff = base
		}
	}
}

// WithRateLimit throttles upstream calls to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(d *Designer) {
		if perSecond > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

// WithObserver sets the observer notified after each upstream call.
func WithObserver(obs llm.Observer) Option {
	return func(d *Designer) { d.observer = obs }
}

// WithMaxTokens sets the maximum output tokens.
func WithMaxTokens(n int) Option {
	return func(d *Designer) { d.maxTokens = n }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(d *Designer) { d.temperature = t }
}

// WithSystemPrompt replaces SystemPrompt.
func WithSystemPrompt(s string) Option {
	return func(d *Designer) { d.systemPrompt = s }
}

// New creates a Designer. By default reasoning blocks are removed from the whole
// answer before it is split, and both sections are then cleaned with the
// markup extractor; rate limits are retried twice and
// calls are not throttled.
func New(p llm.Provider, opts ...Option) *Designer {
	d := &Designer{
		provider:     p,
		preclean:     cleaner.NewThinking(),
		cleaner:      cleaner.NewChain(cleaner.NewThinking(), markup.New()),
		maxRetries:   2,
		backoff:      time.Second,
		maxTokens:    2048,
		temperature:  0.7,
		systemPrompt: SystemPrompt,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Provider returns the configured provider.
func (d *Designer) Provider() llm.Provider {
	return d.provider
}

// Generate validates req, asks the model for a design and returns the cleaned
// explanation and code. Errors are always *Error.
func (d *Designer) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	prompt := strings.TrimSpace(req.Prompt)

	logger.Debug("designer starting",
		"provider", d.provider.Name(),
		"model", d.provider.Model(),
		"prompt_length", len([]rune(prompt)),
		"history", len(req.ConversationHistory))

	start := time.Now()
	resp, retries, err := d.call(ctx, llm.Request{
		Messages:    BuildMessages(d.systemPrompt, req.ConversationHistory, prompt),
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
	})
	if err != nil {
		logger.Debug("designer failed", "retries", retries, "error", err)
		return nil, fromProviderError(err)
	}

	answer, err := d.preclean.Clean(resp.Content)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "Failed to clean response.", Err: err}
	}
	explanation, code := Split(answer)

	cleanExplanation, err := d.cleaner.Clean(explanation)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "Failed to clean explanation.", Err: err}
	}
	cleanCode, err := d.cleaner.Clean(code)
	if err != nil {
		return nil, &Error{Kind: KindUpstream, Message: "Failed to clean code.", Err: err}
	}

	if !markup.HasMarkup(cleanCode) {
		logger.Warn("model answer contained no markup",
			"provider", resp.Provider,
			"model", resp.Model,
			"response_length", len(resp.Content))
		return nil, &Error{
			Kind:    KindNoMarkup,
			Message: "No valid HTML code was generated.",
			Debug: &Debug{
				RawResponse: resp.Content,
				CleanedCode: cleanCode,
				Model:       resp.Model,
				Provider:    resp.Provider,
			},
		}
	}

	result := &Result{
		Explanation:  cleanExplanation,
		Code:         cleanCode,
		FullResponse: resp.Content,
		Model:        resp.Model,
		Provider:     resp.Provider,
		Usage:        resp.Usage,
		Duration:     time.Since(start),
		RetryCount:   retries,
	}
	logger.Debug("designer success",
		"retries", retries,
		"input_tokens", resp.Usage.InputTokens,
		"output_tokens", resp.Usage.OutputTokens,
		"code_length", len(cleanCode),
		"duration", result.Duration)
	return result, nil
}

// call executes req, retrying rate-limited attempts with exponential backoff.
// It returns the number of retries performed.
func (d *Designer) call(ctx context.Context, req llm.Request) (*llm.Response, int, error) {
	for attempt := 0; ; attempt++ {
		if err := d.wait(ctx); err != nil {
			return nil, attempt, err
		}

		resp, err := llm.Observe(ctx, d.provider, req, attempt, d.observer)
		if err == nil {
			if resp.Provider == "" {
				resp.Provider = d.provider.Name()
			}
			return resp, attempt, nil
		}

		if !llm.IsRetryable(err) || attempt >= d.maxRetries {
			return nil, attempt, err
		}

		delay := d.backoff << attempt
		logger.Debug("upstream rate limited, backing off",
			"provider", d.provider.Name(),
			"attempt", attempt+1,
			"delay", delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, attempt, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
	}
}

// wait blocks on the local rate limiter. A wait that cannot finish before the
// context deadline is reported as a rate limit.
func (d *Designer) wait(ctx context.Context) error {
	if d.limiter == nil {
		return nil
	}
	if err := d.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("local throttle: %w: %v", llm.ErrRateLimited, err)
	}
	return nil
}
