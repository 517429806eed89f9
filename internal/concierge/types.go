// Package concierge turns a free-text request into a plan, runs the chosen
// tool and renders the reply.
package concierge

import (
	"cmp"
	"encoding/json"

	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
)

type ChatRequest struct {
	Message string `json:"message"`
	Context string `json:"context"`
}

// UnmarshalJSON also accepts the web client's "conversationContext" key.
func (r *ChatRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Message             string `json:"message"`
		Context             string `json:"context"`
		ConversationContext string `json:"conversationContext"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Message = raw.Message
	r.Context = cmp.Or(raw.Context, raw.ConversationContext)
	return nil
}

// Plan is the planner's decision. When Tool is tools.None the reply is
// ClarifyingQuestion, or a generic request for detail when it is nil.
type Plan struct {
	Tool               tools.Name
	Arguments          map[string]any
	ClarifyingQuestion *string
}

type MentionedEntity struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// ChatResponse keeps the field names the web client already consumes.
type ChatResponse struct {
	ReplyText         string            `json:"response"`
	SelectedTool      tools.Name        `json:"selectedTool"`
	ToolResult        tools.Result      `json:"toolResult"`
	MentionedEntities []MentionedEntity `json:"mentionedUsers"`
}
