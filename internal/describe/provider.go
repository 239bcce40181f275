package describe

import (
	"fmt"
	"net/http"

	"github.com/vistoria-app/vistoria/internal/config"
	"github.com/vistoria-app/vistoria/internal/gemini"
	"github.com/vistoria-app/vistoria/internal/ollama"
	"github.com/vistoria-app/vistoria/internal/openai"
	"github.com/vistoria-app/vistoria/internal/providers"
)

// NewProvider builds the provider named by cfg.Provider together with its request config.
func NewProvider(cfg *config.Config) (providers.Provider, providers.Config, error) {
	request := providers.Config{
		Temperature: cfg.Temperature,
		Prompt:      providers.DefaultPrompt,
		MaxTokens:   cfg.MaxTokens,
	}

	switch cfg.Provider {
	case "openai":
		request.Model = cfg.OpenAIModel
		return openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL, &http.Client{}), request, nil
	case "gemini":
		request.Model = cfg.GeminiModel
		return gemini.New(cfg.GeminiKey), request, nil
	case "ollama":
		request.Model = cfg.OllamaModel
		return ollama.New(cfg.OllamaURL, &http.Client{}), request, nil
	default:
		return nil, providers.Config{}, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

// New builds a Fetcher from configuration.
func New(cfg *config.Config) (*Fetcher, error) {
	provider, request, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewFetcher(provider, request, WithConcurrency(cfg.Concurrency), WithTimeout(cfg.Timeout)), nil
}
