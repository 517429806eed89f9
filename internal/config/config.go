// Package config defines the concierge's application configuration on top
// of the shared tag-driven loader in pkg/config.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	pkgconfig "github.com/lewisedginton/teambuilder_concierge/pkg/config"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// ServiceName is reported in logs and the root endpoint.
const ServiceName = "teambuilder-concierge"

// AppConfig is everything the binaries read from the environment or an
// optional YAML file.
type AppConfig struct {
	Common    pkgconfig.CommonConfig     `yaml:",inline"`
	HTTP      pkgconfig.HTTPServerConfig `yaml:"http"`
	Metrics   pkgconfig.MetricsConfig    `yaml:"metrics"`
	Security  SecurityConfig             `yaml:"security"`
	LLM       LLMConfig                  `yaml:"llm"`
	Anthropic AnthropicConfig            `yaml:"anthropic"`
	OpenAI    OpenAIConfig               `yaml:"openai"`
	Groq      GroqConfig                 `yaml:"groq"`
	Gemini    GeminiConfig               `yaml:"gemini"`
	Directory DirectoryConfig            `yaml:"directory"`
	Telegram  TelegramConfig             `yaml:"telegram"`
	Health    HealthConfig               `yaml:"health"`
}

// Load reads configuration from path (optional) and the environment. It
// does not validate: one-shot commands run without provider credentials,
// while serve calls Validate.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := pkgconfig.GetConfig(cfg, path, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate runs every section's checks and aggregates the failures.
func (c *AppConfig) Validate() error {
	var result error
	for _, v := range []pkgconfig.Validator{c.Common, c.HTTP, c.Metrics, c.Security, c.LLM, c.Directory} {
		if err := v.Validate(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := c.providerCredentials(); err != nil {
		result = multierror.Append(result, err)
	}
	return result
}

func (c AppConfig) providerCredentials() error {
	var key string
	switch c.LLM.Provider {
	case ProviderClaude:
		key = c.Anthropic.APIKey
	case ProviderOpenAI:
		key = c.OpenAI.APIKey
	case ProviderGroq:
		key = c.Groq.APIKey
	case ProviderGemini:
		key = c.Gemini.APIKey
	default:
		return nil // reported by LLMConfig.Validate
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("an API key is required for LLM provider %q", c.LLM.Provider)
	}
	return nil
}

// NewLogger builds the service logger from the common section.
func (c AppConfig) NewLogger() logger.Logger {
	return logger.NewLogger(logger.Config{
		Level:   logger.ParseLevel(c.Common.LogLevel),
		Format:  strings.ToLower(c.Common.LogFormat),
		Service: ServiceName,
	})
}

// ModelName reports the model configured for the active provider.
func (c AppConfig) ModelName() string {
	switch c.LLM.Provider {
	case ProviderClaude:
		return c.Anthropic.Model
	case ProviderOpenAI:
		return c.OpenAI.Model
	case ProviderGroq:
		return c.Groq.Model
	case ProviderGemini:
		return c.Gemini.Model
	}
	return ""
}

// LogConfig writes a summary without secrets.
func (c AppConfig) LogConfig(log logger.Logger) {
	log.Info("Configuration loaded",
		logger.StringField("version", c.Common.Version),
		logger.IntField("port", c.HTTP.Port),
		logger.StringField("llm_provider", c.LLM.Provider),
		logger.StringField("llm_model", c.ModelName()),
		logger.DurationField("completion_timeout", c.LLM.Timeout()),
		logger.StringField("directory_driver", c.Directory.Driver),
		logger.BoolField("metrics_enabled", c.Metrics.Enabled),
		logger.BoolField("telegram_enabled", c.Telegram.Enabled()),
	)
}

// SecurityConfig covers the browser-facing knobs of the HTTP API.
type SecurityConfig struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" yaml:"cors_allowed_origins" default:"http://localhost:3000,http://localhost:5173"`
	MaxRequestSize     int64    `env:"MAX_REQUEST_SIZE" yaml:"max_request_size" default:"65536"`
}

func (s SecurityConfig) Validate() error {
	if s.MaxRequestSize <= 0 {
		return fmt.Errorf("max_request_size must be greater than 0")
	}
	return nil
}

// TelegramConfig enables the optional Telegram front end.
type TelegramConfig struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN" yaml:"bot_token"`
	Debug    bool   `env:"TELEGRAM_DEBUG" yaml:"debug"`
}

func (t TelegramConfig) Enabled() bool { return t.BotToken != "" }

// HealthConfig tunes the readiness probes.
type HealthConfig struct {
	Timeout          time.Duration `env:"HEALTH_TIMEOUT" yaml:"timeout" default:"5s"`
	FailureThreshold int           `env:"HEALTH_FAILURE_THRESHOLD" yaml:"failure_threshold" default:"2"`
}
