package embedder

import (
	"fmt"
	"os"
)

// EnvOpenAIAPIKey is consulted when no API key is configured explicitly.
const EnvOpenAIAPIKey = "OPENAI_API_KEY"

// Config selects and configures an embedding provider.
type Config struct {
	Provider  string // "openai" or "local"
	Model     string
	APIKey    string
	CacheSize int
}

// New constructs an Embedder from config. An empty provider selects
// OpenAI when an API key is available and falls back to the local
// provider otherwise.
func New(cfg Config) (Embedder, error) {
	cache := NewCache(cfg.CacheSize)

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvOpenAIAPIKey)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, cfg.Model, cache)
	case ProviderLocal:
		return NewLocalProvider(cache), nil
	case "":
		if apiKey != "" {
			return NewOpenAIProvider(apiKey, cfg.Model, cache)
		}
		return NewLocalProvider(cache), nil
	}
	return nil, fmt.Errorf("%w: unknown provider %q", ErrNoProviderEnabled, cfg.Provider)
}
