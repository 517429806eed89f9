package config

import (
	"fmt"
	"time"
)

// Provider names accepted by LLM_PROVIDER.
const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// LLMConfig selects the single active completion provider.
type LLMConfig struct {
	Provider                 string `env:"LLM_PROVIDER" yaml:"provider" default:"gemini"`
	CompletionTimeoutSeconds int    `env:"COMPLETION_TIMEOUT_SECONDS" yaml:"completion_timeout_seconds" default:"30"`
	// PromptsDir overrides the embedded prompt templates.
	PromptsDir string `env:"PROMPTS_DIR" yaml:"prompts_dir"`
}

func (l LLMConfig) Validate() error {
	switch l.Provider {
	case ProviderClaude, ProviderOpenAI, ProviderGroq, ProviderGemini:
	default:
		return fmt.Errorf("llm provider must be one of [claude, openai, groq, gemini], got %q", l.Provider)
	}
	if l.CompletionTimeoutSeconds <= 0 {
		return fmt.Errorf("completion_timeout_seconds must be greater than 0")
	}
	return nil
}

func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.CompletionTimeoutSeconds) * time.Second
}

type AnthropicConfig struct {
	APIKey    string `env:"ANTHROPIC_API_KEY" yaml:"api_key"`
	Model     string `env:"CLAUDE_MODEL" yaml:"model" default:"claude-sonnet-4-20250514"`
	BaseURL   string `env:"ANTHROPIC_BASE_URL" yaml:"base_url"`
	MaxTokens int    `env:"CLAUDE_MAX_TOKENS" yaml:"max_tokens" default:"2048"`
}

type OpenAIConfig struct {
	APIKey    string `env:"OPENAI_API_KEY" yaml:"api_key"`
	Model     string `env:"OPENAI_MODEL" yaml:"model" default:"gpt-4o-mini"`
	BaseURL   string `env:"OPENAI_BASE_URL" yaml:"base_url"`
	MaxTokens int    `env:"OPENAI_MAX_TOKENS" yaml:"max_tokens" default:"2048"`
}

type GroqConfig struct {
	APIKey    string `env:"GROQ_API_KEY" yaml:"api_key"`
	Model     string `env:"GROQ_MODEL" yaml:"model" default:"llama-3.3-70b-versatile"`
	MaxTokens int    `env:"GROQ_MAX_TOKENS" yaml:"max_tokens" default:"2048"`
}

type GeminiConfig struct {
	APIKey          string  `env:"GEMINI_API_KEY" yaml:"api_key"`
	Model           string  `env:"GEMINI_MODEL" yaml:"model" default:"gemini-2.5-flash"`
	Temperature     float64 `env:"GEMINI_TEMPERATURE" yaml:"temperature" default:"0.7"`
	MaxOutputTokens int     `env:"GEMINI_MAX_OUTPUT_TOKENS" yaml:"max_output_tokens" default:"2048"`
}
