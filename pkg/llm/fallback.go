package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FallbackProvider tries each provider in order until one succeeds.
// This is useful for provider failover (e.g., try OpenRouter, fall back to Ollama).
type FallbackProvider struct {
	providers []Provider
}

// NewFallback creates a fallback chain from the given providers.
// Nil providers are skipped.
func NewFallback(providers ...Provider) *FallbackProvider {
	ps := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			ps = append(ps, p)
		}
	}
	return &FallbackProvider{providers: ps}
}

// Execute tries each provider in order and returns the first success.
// Context cancellation stops the chain immediately.
func (f *FallbackProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	if len(f.providers) == 0 {
		return nil, ErrNoProviderAvailable
	}

	var errs []error
	tried := make([]string, 0, len(f.providers))

	for _, p := range f.providers {
		tried = append(tried, p.Name())
		resp, err := p.Execute(ctx, req)
		if err == nil {
			return resp, nil
		}
		errs = append(errs, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("all providers failed (tried: %s): %w", strings.Join(tried, ", "), errors.Join(errs...))
}

// Name returns the fallback chain name.
func (f *FallbackProvider) Name() string {
	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.Name()
	}
	return "fallback(" + strings.Join(names, "->") + ")"
}

// Model returns the model of the first provider in the chain.
func (f *FallbackProvider) Model() string {
	if len(f.providers) == 0 {
		return ""
	}
	return f.providers[0].Model()
}

// Providers returns the chained providers in order.
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}

var _ Provider = (*FallbackProvider)(nil)
