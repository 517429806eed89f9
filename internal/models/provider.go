// Package models selects and constructs the completion provider adapter
// named by configuration.
package models

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/config"
	"github.com/lewisedginton/teambuilder_concierge/internal/models/anthropic"
	"github.com/lewisedginton/teambuilder_concierge/internal/models/gemini"
	"github.com/lewisedginton/teambuilder_concierge/internal/models/openai"
)

// NewProvider builds the adapter for cfg.LLM.Provider. The returned
// provider is a nil interface whenever err is set.
func NewProvider(ctx context.Context, cfg *config.AppConfig) (completion.Provider, error) {
	p, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func newProvider(ctx context.Context, cfg *config.AppConfig) (completion.Provider, error) {
	switch cfg.LLM.Provider {
	case config.ProviderClaude:
		var opts []option.RequestOption
		if cfg.Anthropic.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.Anthropic.BaseURL))
		}
		return anthropic.NewClaudeModel(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens, opts...)

	case config.ProviderOpenAI:
		return openai.New(openai.Config{
			Name:      config.ProviderOpenAI,
			APIKey:    cfg.OpenAI.APIKey,
			Model:     cfg.OpenAI.Model,
			BaseURL:   cfg.OpenAI.BaseURL,
			MaxTokens: cfg.OpenAI.MaxTokens,
		})

	case config.ProviderGroq:
		return openai.New(openai.Config{
			Name:      config.ProviderGroq,
			APIKey:    cfg.Groq.APIKey,
			Model:     cfg.Groq.Model,
			BaseURL:   config.GroqBaseURL,
			MaxTokens: cfg.Groq.MaxTokens,
		})

	case config.ProviderGemini:
		return gemini.New(ctx, gemini.Config{
			APIKey:          cfg.Gemini.APIKey,
			Model:           cfg.Gemini.Model,
			Temperature:     cfg.Gemini.Temperature,
			MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		})
	}
	return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLM.Provider)
}
