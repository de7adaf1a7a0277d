package service

import (
	"fmt"

	"docintel/internal/config"
	"docintel/internal/domain"
	"docintel/internal/generation"
	"docintel/internal/generation/anthropic"
	"docintel/internal/generation/openai"
)

// NewGenerator builds the configured generator wrapped with retries. The
// "none" type yields a nil generator.
func NewGenerator(cfg config.GeneratorConfig) (domain.Generator, error) {
	switch cfg.Type {
	case "", config.GeneratorNone:
		return nil, nil
	case config.GeneratorAnthropic:
		c, err := anthropic.NewClient(anthropic.Config{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		return generation.NewRetrying(c, cfg.MaxRetries), nil
	case config.GeneratorOpenAI:
		c, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.BaseURL,
			APIKeyEnv: cfg.APIKeyEnv,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout(),
		})
		if err != nil {
			return nil, err
		}
		return generation.NewRetrying(c, cfg.MaxRetries), nil
	default:
		return nil, fmt.Errorf("%w: generator %q", domain.ErrUnsupportedType, cfg.Type)
	}
}
