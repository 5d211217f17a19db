package factory

import (
	"errors"
	"fmt"

	"promptbridge/internal/config"
	"promptbridge/internal/provider"
	"promptbridge/internal/provider/anthropic"
	"promptbridge/internal/provider/google"
	"promptbridge/internal/provider/ollama"
	"promptbridge/internal/provider/openai"
)

// RegisterConfiguredProviders constructs every provider from configuration and stores them in the registry.
func RegisterConfiguredProviders(cfg config.Config, registry *provider.Registry) error {
	if registry == nil {
		return errors.New("registry must not be nil")
	}

	openAIProvider, err := openai.New(openai.Name, cfg.Providers.OpenAI)
	if err != nil {
		return fmt.Errorf("initialise openai provider: %w", err)
	}
	if err := registry.Register(openAIProvider, cfg.Providers.OpenAI.Aliases); err != nil {
		return fmt.Errorf("register openai provider: %w", err)
	}

	anthropicProvider, err := anthropic.New(anthropic.Name, cfg.Providers.Anthropic)
	if err != nil {
		return fmt.Errorf("initialise anthropic provider: %w", err)
	}
	if err := registry.Register(anthropicProvider, cfg.Providers.Anthropic.Aliases); err != nil {
		return fmt.Errorf("register anthropic provider: %w", err)
	}

	googleProvider, err := google.New(google.Name, cfg.Providers.Google)
	if err != nil {
		return fmt.Errorf("initialise google provider: %w", err)
	}
	if err := registry.Register(googleProvider, cfg.Providers.Google.Aliases); err != nil {
		return fmt.Errorf("register google provider: %w", err)
	}

	ollamaProvider, err := ollama.New(ollama.Name, cfg.Providers.Ollama)
	if err != nil {
		return fmt.Errorf("initialise ollama provider: %w", err)
	}
	if err := registry.Register(ollamaProvider, cfg.Providers.Ollama.Aliases); err != nil {
		return fmt.Errorf("register ollama provider: %w", err)
	}

	return nil
}
