// Package anthropic adapts the Anthropic Messages API to completion.Provider.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
)

const defaultMaxTokens = 2048

// ClaudeModel sends single-turn prompts to a Claude model.
type ClaudeModel struct {
	client    anthropic.Client
	modelName string
	maxTokens int64
}

var _ completion.Provider = (*ClaudeModel)(nil)

// NewClaudeModel builds an adapter. Extra request options (base URL, HTTP
// client) are appended after the API key.
func NewClaudeModel(apiKey, modelName string, maxTokens int, opts ...option.RequestOption) (*ClaudeModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if modelName == "" {
		return nil, fmt.Errorf("claude model name is required")
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	// retries are disabled: a failed call degrades to a placeholder instead
	reqOpts := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &ClaudeModel{
		client:    anthropic.NewClient(reqOpts...),
		modelName: modelName,
		maxTokens: int64(maxTokens),
	}, nil
}

func (c *ClaudeModel) Name() string { return "claude" }

// SupportsJSONMode is false: the Messages API has no JSON response format,
// so planning output is recovered by the response parser instead.
func (c *ClaudeModel) SupportsJSONMode() bool { return false }

func (c *ClaudeModel) Generate(ctx context.Context, req completion.Request) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelName),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}
