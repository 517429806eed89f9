package concierge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{"plain object", `{"tool":"none"}`, map[string]any{"tool": "none"}},
		{"padded object", "  \n{\"tool\":\"none\"}\n", map[string]any{"tool": "none"}},
		{"json fence", "```json\n{\"a\":1}\n```", map[string]any{"a": 1.0}},
		{"bare fence", "Here you go:\n```\n{\"a\":true}\n```\nDone.", map[string]any{"a": true}},
		{"upper-case fence tag", "```JSON\n{\"a\":\"b\"}\n```", map[string]any{"a": "b"}},
		{"embedded braces", `Sure thing! {"tool":"search_candidates","arguments":{"skills":["Go"]}} hope that helps`,
			map[string]any{"tool": "search_candidates", "arguments": map[string]any{"skills": []any{"Go"}}}},
		{"prose", "not json", nil},
		{"empty", "", nil},
		{"whitespace", "   ", nil},
		{"array", "[1,2,3]", nil},
		{"null literal", "null", nil},
		{"string literal", `"tool"`, nil},
		{"unbalanced", `{"tool": "none"`, nil},
		{"reversed braces", "} nothing {", nil},
		{"broken fence falls through to braces", "```json\n{\"a\":1,}\n``` but {\"b\":2}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseObject(tt.in))
		})
	}
}

func TestParseObjectNeverPanics(t *testing.T) {
	for _, in := range []string{"{", "}", "```", "```json", "{{}}", "{\"a\":}", "\x00{\x00}"} {
		assert.NotPanics(t, func() { ParseObject(in) }, in)
	}
}

func TestChatRequestAcceptsConversationContext(t *testing.T) {
	var req ChatRequest
	assert.NoError(t, json.Unmarshal([]byte(`{"message":"hi","conversationContext":"earlier"}`), &req))
	assert.Equal(t, ChatRequest{Message: "hi", Context: "earlier"}, req)

	assert.NoError(t, json.Unmarshal([]byte(`{"message":"hi","context":"now","conversationContext":"earlier"}`), &req))
	assert.Equal(t, "now", req.Context)

	assert.Error(t, json.Unmarshal([]byte(`{"message":42}`), &req))
}
