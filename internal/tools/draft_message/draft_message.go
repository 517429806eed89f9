// Package draft_message writes a short team intro message with the
// completion provider.
package draft_message //nolint:revive // var-naming: using underscores for domain clarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// Placeholder replaces the draft whenever generation fails.
const Placeholder = "Unable to generate draft right now."

const maxMembers = 10

type TeamMember struct {
	Name   string   `json:"name" validate:"required"`
	Skills []string `json:"skills" validate:"max=20,dive,max=64"`
}

type Args struct {
	TeamMembers []TeamMember `json:"teamMembers" validate:"max=10,dive"`
	ProjectName string       `json:"projectName" validate:"max=200"`
	Goal        string       `json:"goal" validate:"max=1000"`
}

func (a Args) input() prompt_manager.DraftInput {
	members := make([]prompt_manager.Person, 0, len(a.TeamMembers))
	for _, m := range a.TeamMembers {
		members = append(members, prompt_manager.Person{Name: m.Name, Skills: tools.NormalizeSkills(m.Skills)})
	}
	return prompt_manager.DraftInput{ProjectName: a.ProjectName, Goal: a.Goal, Members: members}
}

type Tool struct {
	completer completion.Completer
	prompts   *prompt_manager.PromptManager
	log       logger.Logger
}

var _ tools.Tool = (*Tool)(nil)

func New(c completion.Completer, prompts *prompt_manager.PromptManager, log logger.Logger) *Tool {
	if prompts == nil {
		prompts = prompt_manager.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	if c == nil {
		c = completion.NewClient(nil, completion.Config{Logger: log})
	}
	return &Tool{completer: c, prompts: prompts, log: log.WithFields(logger.ToolField(string(tools.DraftMessage)))}
}

func (t *Tool) Name() tools.Name { return tools.DraftMessage }

func (t *Tool) Spec() prompt_manager.ToolSpec {
	return prompt_manager.ToolSpec{
		Name:        string(tools.DraftMessage),
		Description: "use when user wants to draft/write an invite or intro message for a team",
		Triggers:    []string{"write an intro for my team", "draft a message to my teammates"},
		Arguments:   `{"teamMembers": [{"name": "Name", "skills": ["skill"]}], "projectName": "name", "goal": "description"}`,
		Examples: []string{
			`For "write an intro for FinTrack with Priya (React) and Rohit (Node.js)" → tool: draft_message, teamMembers: [{"name": "Priya", "skills": ["React"]}, {"name": "Rohit", "skills": ["Node.js"]}], projectName: "FinTrack"`,
		},
	}
}

// Coerce accepts team_members/project_name, members given as bare names and
// skills as comma-separated strings. Extra members are dropped.
func (t *Tool) Coerce(args map[string]any) any {
	var a Args
	if v, ok := tools.Lookup(args, "teamMembers", "team_members", "members"); ok {
		if list, ok := v.([]any); ok {
			for _, item := range list {
				switch m := item.(type) {
				case string:
					a.TeamMembers = append(a.TeamMembers, TeamMember{Name: strings.TrimSpace(m)})
				case map[string]any:
					member := TeamMember{Name: tools.String(m["name"])}
					if skills, ok := m["skills"]; ok {
						member.Skills = tools.StringList(skills)
					}
					a.TeamMembers = append(a.TeamMembers, member)
				}
			}
		}
	}
	if len(a.TeamMembers) > maxMembers {
		a.TeamMembers = a.TeamMembers[:maxMembers]
	}
	if v, ok := tools.Lookup(args, "projectName", "project_name"); ok {
		a.ProjectName = tools.String(v)
	}
	if v, ok := tools.Lookup(args, "goal"); ok {
		a.Goal = tools.String(v)
	}
	return a
}

func (t *Tool) Decode(raw json.RawMessage) (any, error) {
	var a Args
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, tools.DecodeError(tools.DraftMessage, err)
		}
	}
	for i := range a.TeamMembers {
		a.TeamMembers[i].Name = strings.TrimSpace(a.TeamMembers[i].Name)
	}
	a.ProjectName = strings.TrimSpace(a.ProjectName)
	a.Goal = strings.TrimSpace(a.Goal)
	if err := tools.ValidateStruct(tools.DraftMessage, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Run never fails on provider errors; the draft becomes Placeholder.
func (t *Tool) Run(ctx context.Context, args any) (tools.Result, error) {
	a, ok := args.(Args)
	if !ok {
		return tools.Result{}, fmt.Errorf("draft_message: unexpected argument type %T", args)
	}

	prompt, err := t.prompts.Draft(a.input())
	if err != nil {
		t.log.Error("Failed to render draft prompt", logger.ErrorField(err))
		return tools.DraftResult(Placeholder), nil
	}

	text, err := t.completer.Complete(ctx, prompt, completion.Options{JSONMode: false})
	if err != nil {
		t.log.Warn("Draft generation failed", logger.ErrorField(err))
		return tools.DraftResult(Placeholder), nil
	}
	return tools.DraftResult(text), nil
}
