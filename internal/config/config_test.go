package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.ModelName())
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout())
	assert.InDelta(t, 0.7, cfg.Gemini.Temperature, 0.001)
	assert.Equal(t, 2048, cfg.Gemini.MaxOutputTokens)
	assert.Equal(t, DirectoryMemory, cfg.Directory.Driver)
	assert.True(t, cfg.Directory.AutoMigrate)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoadDoesNotRequireCredentials(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.Validate())
}

func TestLoadProviderSelection(t *testing.T) {
	tests := []struct {
		provider, keyVar, model string
	}{
		{ProviderClaude, "ANTHROPIC_API_KEY", "claude-sonnet-4-20250514"},
		{ProviderOpenAI, "OPENAI_API_KEY", "gpt-4o-mini"},
		{ProviderGroq, "GROQ_API_KEY", "llama-3.3-70b-versatile"},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			t.Setenv("LLM_PROVIDER", tt.provider)
			t.Setenv(tt.keyVar, "secret")

			cfg, err := Load("")
			require.NoError(t, err)
			require.NoError(t, cfg.Validate())
			assert.Equal(t, tt.model, cfg.ModelName())
		})
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing provider key",
			env:  map[string]string{"LLM_PROVIDER": "openai"},
			want: `API key is required for LLM provider "openai"`,
		},
		{
			name: "unknown provider",
			env:  map[string]string{"LLM_PROVIDER": "mystery"},
			want: "llm provider must be one of",
		},
		{
			name: "unknown directory driver",
			env:  map[string]string{"GEMINI_API_KEY": "k", "DIRECTORY_DRIVER": "mongo"},
			want: "directory driver must be one of",
		},
		{
			name: "bad completion timeout",
			env:  map[string]string{"GEMINI_API_KEY": "k", "COMPLETION_TIMEOUT_SECONDS": "-1"},
			want: "completion_timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load("")
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	t.Setenv("TEST_GROQ_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "concierge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
llm:
  provider: groq
  completion_timeout_seconds: 12
groq:
  api_key: ${TEST_GROQ_KEY}
directory:
  driver: sqlite
  sqlite_path: /tmp/users.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Common.LogLevel)
	assert.Equal(t, ProviderGroq, cfg.LLM.Provider)
	assert.Equal(t, 12*time.Second, cfg.LLM.Timeout())
	assert.Equal(t, "from-env", cfg.Groq.APIKey)
	assert.Equal(t, DirectorySQLite, cfg.Directory.Driver)
	assert.Equal(t, "/tmp/users.db", cfg.Directory.SQLitePath)
}

func TestPostgresDirectoryRequiresValidDatabase(t *testing.T) {
	d := DirectoryConfig{Driver: DirectoryPostgres}
	assert.Error(t, d.Validate())

	d.Postgres.URL = "postgres://localhost/teambuilder"
	d.Postgres.MaxConnections = 5
	assert.NoError(t, d.Validate())
}
