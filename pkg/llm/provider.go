// Package llm provides a unified interface for chat-completion providers.
//
// Every backend implements Provider. Providers are created by name through the
// registry (NewProvider) or picked from the environment with DetectProvider,
// and can be chained with NewFallback.
package llm

import (
	"context"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message.
type Message struct {
	Role    Role
	Content string
}

// Request represents a completion request.
type Request struct {
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens" yaml:"input_tokens"`
	OutputTokens int `json:"output_tokens" yaml:"output_tokens"`
}

// Add returns the sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}

// Response represents the result of a completion.
type Response struct {
	Content      string
	FinishReason string
	Usage        Usage
	Model        string // Actual model used (may differ from requested for auto-routing)
	Provider     string
	Duration     time.Duration
}

// Provider is the core interface that all backends must implement.
type Provider interface {
	// Execute sends a completion request and returns the response.
	// Upstream failures are classified; see ErrRateLimited and ErrUnauthorized.
	Execute(ctx context.Context, req Request) (*Response, error)

	// Name returns the provider identifier (e.g., "openrouter", "anthropic").
	Name() string

	// Model returns the configured model name.
	Model() string
}

// ProviderConfig holds common configuration for providers.
type ProviderConfig struct {
	APIKey     string
	BaseURL    string // For custom endpoints or local gateways
	Model      string
	MaxRetries int // SDK-level retries; 0 disables them
	Timeout    time.Duration
	// HTTPReferer and AppTitle are sent to OpenRouter for attribution.
	HTTPReferer string
	AppTitle    string
}

// DefaultProviderConfig returns sensible defaults.
func DefaultProviderConfig() ProviderConfig {
	return ProviderConfig{
		Timeout:     120 * time.Second,
		HTTPReferer: "https://github.com/jmylchreest/uiforge",
		AppTitle:    "uiforge",
	}
}

const defaultMaxTokens = 4096

func maxTokensOr(n int) int {
	if n <= 0 {
		return defaultMaxTokens
	}
	return n
}
