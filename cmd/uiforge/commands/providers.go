package commands

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jmylchreest/uiforge/internal/logger"
	"github.com/jmylchreest/uiforge/pkg/llm"
)

// ProviderSettings holds provider-specific settings from the config file.
type ProviderSettings struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	BaseURL     string  `mapstructure:"base_url"`
}

// Default fallback order: openrouter → anthropic → openai → gemini → ollama
var defaultFallbackOrder = []string{"openrouter", "anthropic", "openai", "gemini", "ollama"}

// chainOptions carries command-line overrides. They apply to the preferred provider only.
type chainOptions struct {
	Preferred string
	Model     string
	APIKey    string
	BaseURL   string
	Timeout   time.Duration
}

// providerChain is the resolved set of providers plus the settings of the first one.
type providerChain struct {
	Provider llm.Provider
	Names    []string
	Primary  ProviderSettings
}

// buildProviderChain creates a fallback provider based on config.
// If opts.Preferred is set (via --provider), it goes first; then fallback_order
// from config, or the default order. Providers without an API key are skipped,
// except ollama which needs none.
func buildProviderChain(opts chainOptions) (*providerChain, error) {
	order := viper.GetStringSlice("fallback_order")
	if len(order) == 0 {
		order = defaultFallbackOrder
	}
	if opts.Preferred != "" {
		if !llm.IsRegistered(opts.Preferred) {
			return nil, fmt.Errorf("unknown provider: %s", opts.Preferred)
		}
		reordered := []string{opts.Preferred}
		for _, p := range order {
			if p != opts.Preferred {
				reordered = append(reordered, p)
			}
		}
		order = reordered
	}

	settings := make(map[string]ProviderSettings)
	_ = viper.UnmarshalKey("providers", &settings)

	chain := &providerChain{}
	var providers []llm.Provider
	added := make(map[string]bool)

	for _, name := range order {
		if added[name] {
			continue
		}
		if !llm.IsRegistered(name) {
			logger.Debug("unknown provider in fallback_order", "provider", name)
			continue
		}

		ps := settings[name]
		cfg := llm.DefaultProviderConfig()
		cfg.Model = ps.Model
		cfg.BaseURL = ps.BaseURL
		cfg.APIKey = viper.GetString(name + "_api_key")
		if opts.Timeout > 0 {
			cfg.Timeout = opts.Timeout
		}

		if name == opts.Preferred {
			if opts.Model != "" {
				cfg.Model = opts.Model
			}
			if opts.APIKey != "" {
				cfg.APIKey = opts.APIKey
			}
			if opts.BaseURL != "" {
				cfg.BaseURL = opts.BaseURL
			}
		}

		if cfg.APIKey == "" && llm.EnvKey(name) != "" {
			logger.Debug("skipping provider without API key", "provider", name, "env", llm.EnvKey(name))
			continue
		}

		p, err := llm.NewProvider(name, cfg)
		if err != nil {
			logger.Debug("failed to create provider", "provider", name, "error", err)
			continue
		}

		if len(providers) == 0 {
			chain.Primary = ps
		}
		added[name] = true
		providers = append(providers, p)
		chain.Names = append(chain.Names, name)
		logger.Debug("added provider to chain", "provider", name, "model", p.Model())
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: set an API key or run Ollama locally", llm.ErrNoProviderAvailable)
	}
	if len(providers) == 1 {
		chain.Provider = providers[0]
	} else {
		chain.Provider = llm.NewFallback(providers...)
	}
	return chain, nil
}
