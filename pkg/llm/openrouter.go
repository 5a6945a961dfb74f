package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider routes chat completions through OpenRouter's
// OpenAI-compatible endpoint.
type OpenRouterProvider struct {
	client openai.Client
	model  string
}

// NewOpenRouterProvider creates a new OpenRouter provider.
// HTTPReferer and AppTitle are sent as the HTTP-Referer and X-Title headers.
func NewOpenRouterProvider(cfg ProviderConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenRouter API key required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openRouterBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(cfg.MaxRetries),
	}
	if cfg.HTTPReferer != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.HTTPReferer))
	}
	if cfg.AppTitle != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.AppTitle))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModels["openrouter"]
	}

	return &OpenRouterProvider{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Execute sends a completion request to OpenRouter.
func (p *OpenRouterProvider) Execute(ctx context.Context, req Request) (*Response, error) {
	return executeChatCompletion(ctx, p.client, p.Name(), p.model, req)
}

// Name returns the provider identifier.
func (p *OpenRouterProvider) Name() string {
	return "openrouter"
}

// Model returns the configured model name.
func (p *OpenRouterProvider) Model() string {
	return p.model
}

var _ Provider = (*OpenRouterProvider)(nil)
