// Package gemini adapts the Google Gen AI SDK to completion.Provider.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
)

// Config holds the generation settings for one Gemini model.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float64
	MaxOutputTokens int
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// Model calls GenerateContent for single-turn prompts.
type Model struct {
	client    *genai.Client
	modelName string
	temp      float32
	maxTokens int32
}

var _ completion.Provider = (*Model)(nil)

func New(ctx context.Context, cfg Config) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini model name is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &Model{
		client:    client,
		modelName: cfg.Model,
		temp:      float32(cfg.Temperature),
		maxTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

func (m *Model) Name() string { return "gemini" }

func (m *Model) SupportsJSONMode() bool { return true }

func (m *Model) Generate(ctx context.Context, req completion.Request) (string, error) {
	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(m.temp),
	}
	if m.maxTokens > 0 {
		gc.MaxOutputTokens = m.maxTokens
	}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.JSONMode {
		gc.ResponseMIMEType = "application/json"
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.modelName,
		[]*genai.Content{genai.NewContentFromText(req.Prompt, genai.RoleUser)}, gc)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", err)
	}
	return resp.Text(), nil
}
