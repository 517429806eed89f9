// Package openai adapts OpenAI-compatible Chat Completions endpoints to
// completion.Provider. Groq is served by the same adapter pointed at its
// OpenAI-compatible base URL.
package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
)

const (
	chatTemperature = 0.7
	planTemperature = 0.2
)

// Model is a chat-completions adapter bound to one model.
type Model struct {
	client    openai.Client
	name      string
	modelName string
	maxTokens int64
}

var _ completion.Provider = (*Model)(nil)

// Config describes one OpenAI-compatible endpoint.
type Config struct {
	// Name is reported as the provider name, e.g. "openai" or "groq".
	Name      string
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
}

// New builds an adapter. Extra options are applied after the config ones.
func New(cfg Config, opts ...option.RequestOption) (*Model, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s API key is required", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s model name is required", cfg.Name)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.BaseURL))
	}
	reqOpts = append(reqOpts, opts...)

	return &Model{
		client:    openai.NewClient(reqOpts...),
		name:      cfg.Name,
		modelName: cfg.Model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

func (o *Model) Name() string { return o.name }

func (o *Model) SupportsJSONMode() bool { return true }

func (o *Model) Generate(ctx context.Context, req completion.Request) (string, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(o.modelName),
		Messages:    messages,
		Temperature: openai.Float(chatTemperature),
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(o.maxTokens)
	}
	if req.JSONMode {
		params.Temperature = openai.Float(planTemperature)
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s api error: %w", o.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
