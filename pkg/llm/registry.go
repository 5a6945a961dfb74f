package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// ProviderFactory creates providers from config.
type ProviderFactory func(cfg ProviderConfig) (Provider, error)

// DefaultModels maps provider names to their default models.
var DefaultModels = map[string]string{
	"openrouter": "mistralai/mistral-7b-instruct:free",
	"anthropic":  "claude-sonnet-4-20250514",
	"openai":     "gpt-4o-mini",
	"gemini":     "gemini-2.0-flash",
	"ollama":     "llama3.2",
}

var (
	registryMu sync.RWMutex
	registry   = map[string]ProviderFactory{}
)

func init() {
	RegisterProvider("openrouter", func(cfg ProviderConfig) (Provider, error) {
		return NewOpenRouterProvider(cfg)
	})
	RegisterProvider("anthropic", func(cfg ProviderConfig) (Provider, error) {
		return NewAnthropicProvider(cfg)
	})
	RegisterProvider("openai", func(cfg ProviderConfig) (Provider, error) {
		return NewOpenAIProvider(cfg)
	})
	RegisterProvider("gemini", func(cfg ProviderConfig) (Provider, error) {
		return NewGeminiProvider(cfg)
	})
	RegisterProvider("ollama", func(cfg ProviderConfig) (Provider, error) {
		return NewOllamaProvider(cfg)
	})
}

// NewProvider creates a provider by name.
func NewProvider(name string, cfg ProviderConfig) (Provider, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s (available: %s)", name, strings.Join(AvailableProviders(), ", "))
	}
	return factory(cfg)
}

// RegisterProvider adds a custom provider factory, replacing any existing one.
func RegisterProvider(name string, factory ProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// AvailableProviders returns the sorted list of registered providers.
func AvailableProviders() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	providers := make([]string, 0, len(registry))
	for name := range registry {
		providers = append(providers, name)
	}
	sort.Strings(providers)
	return providers
}

// IsRegistered returns true if a provider is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[name]
	return ok
}

// GetDefaultModel returns the default model for a provider.
func GetDefaultModel(provider string) string {
	return DefaultModels[provider]
}

// detectOrder is the precedence used by DetectProvider.
var detectOrder = []string{"openrouter", "anthropic", "openai", "gemini"}

// providerEnvKeys maps provider names to their API key environment variables.
var providerEnvKeys = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"gemini":     "GEMINI_API_KEY",
}

// EnvKey returns the API key environment variable for a provider, or "".
func EnvKey(provider string) string {
	return providerEnvKeys[provider]
}

// DetectProvider auto-detects the provider from available API keys.
// Priority: OPENROUTER_API_KEY > ANTHROPIC_API_KEY > OPENAI_API_KEY > GEMINI_API_KEY > ollama (no key needed)
func DetectProvider() (provider string, apiKey string) {
	for _, name := range detectOrder {
		if key := os.Getenv(providerEnvKeys[name]); key != "" {
			return name, key
		}
	}
	return "ollama", ""
}

// HasAPIKey checks if an API key environment variable is set for the given provider.
func HasAPIKey(provider string) bool {
	if envKey, ok := providerEnvKeys[provider]; ok {
		return os.Getenv(envKey) != ""
	}
	return false
}
