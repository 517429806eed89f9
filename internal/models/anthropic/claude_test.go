package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
)

func TestNewClaudeModelValidation(t *testing.T) {
	tests := []struct {
		name, key, model string
		wantErr          bool
	}{
		{"valid", "k", "claude-sonnet-4-20250514", false},
		{"missing key", "", "claude-sonnet-4-20250514", true},
		{"missing model", "k", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewClaudeModel(tt.key, tt.model, 0)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "claude", m.Name())
			assert.False(t, m.SupportsJSONMode())
			assert.EqualValues(t, defaultMaxTokens, m.maxTokens)
		})
	}
}

func TestGenerateSendsPromptAndJoinsText(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "Hi team, "}, {"type": "text", "text": "let's build."}],
			"stop_reason": "end_turn", "usage": {"input_tokens": 3, "output_tokens": 4}
		}`))
	}))
	defer srv.Close()

	m, err := NewClaudeModel("test-key", "claude-sonnet-4-20250514", 512, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	text, err := m.Generate(context.Background(), completion.Request{Prompt: "draft", System: "be brief"})
	require.NoError(t, err)
	assert.Equal(t, "Hi team, let's build.", text)

	assert.Equal(t, "claude-sonnet-4-20250514", body["model"])
	assert.EqualValues(t, 512, body["max_tokens"])
	system := body["system"].([]any)
	assert.Equal(t, "be brief", system[0].(map[string]any)["text"])
}

func TestGenerateSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad prompt"}}`))
	}))
	defer srv.Close()

	m, err := NewClaudeModel("k", "claude-sonnet-4-20250514", 0, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = m.Generate(context.Background(), completion.Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "claude api error")
}
