package draft_message //nolint:revive // var-naming: using underscores for domain clarity

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string, opts completion.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

func TestRunReturnsDraft(t *testing.T) {
	c := &mockCompleter{}
	c.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "PROJECT NAME: FinTrack") &&
			strings.Contains(p, "1. Priya | Skills: React, Figma") &&
			strings.Contains(p, "under 120 words")
	}), completion.Options{JSONMode: false}).Return("Hi all! Meet team FinTrack.", nil)

	tool := New(c, nil, nil)
	res, err := tool.Run(context.Background(), tool.Coerce(map[string]any{
		"team_members": []any{map[string]any{"name": "Priya", "skills": []any{"React", "Figma"}}},
		"project_name": "FinTrack",
		"goal":         "Track spending",
	}))
	require.NoError(t, err)
	assert.Equal(t, tools.DraftResult("Hi all! Meet team FinTrack."), res)
	c.AssertExpectations(t)
}

func TestRunFailingCompletionGivesPlaceholder(t *testing.T) {
	for _, failure := range []error{
		&completion.Error{Kind: completion.KindProvider, Provider: "mock", Err: assert.AnError},
		&completion.Error{Kind: completion.KindTimeout, Provider: "mock"},
		&completion.Error{Kind: completion.KindNotConfigured, Provider: "none"},
	} {
		c := &mockCompleter{}
		c.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", failure)

		var (
			res tools.Result
			err error
		)
		assert.NotPanics(t, func() {
			res, err = New(c, nil, nil).Run(context.Background(), Args{ProjectName: "X"})
		})
		require.NoError(t, err)
		assert.Equal(t, tools.KindDraft, res.Kind)
		assert.Equal(t, Placeholder, res.Draft)
	}
}

func TestRunWithRealClientAndNoProvider(t *testing.T) {
	res, err := New(completion.NewClient(nil, completion.Config{}), nil, nil).Run(context.Background(), Args{})
	require.NoError(t, err)
	assert.Equal(t, "Unable to generate draft right now.", res.Draft)
}

func TestCoerce(t *testing.T) {
	members := make([]any, 0, 12)
	for i := 0; i < 12; i++ {
		members = append(members, "member")
	}
	a := New(nil, nil, nil).Coerce(map[string]any{
		"teamMembers": members,
		"projectName": "  Apollo ",
	}).(Args)
	assert.Len(t, a.TeamMembers, 10)
	assert.Equal(t, "Apollo", a.ProjectName)

	a = New(nil, nil, nil).Coerce(map[string]any{
		"team_members": []any{map[string]any{"name": "Neha", "skills": "Flutter, Firebase"}, 42},
	}).(Args)
	require.Len(t, a.TeamMembers, 1)
	assert.Equal(t, TeamMember{Name: "Neha", Skills: []string{"Flutter", " Firebase"}}, a.TeamMembers[0])

	a = New(nil, nil, nil).Coerce(map[string]any{"teamMembers": "not a list"}).(Args)
	assert.Empty(t, a.TeamMembers)
}

func TestDecode(t *testing.T) {
	tool := New(nil, nil, nil)

	args, err := tool.Decode(json.RawMessage(`{"teamMembers":[{"name":" Rohit ","skills":["Node.js"]}],"projectName":"MedBuddy","goal":"Medicine reminders"}`))
	require.NoError(t, err)
	assert.Equal(t, "Rohit", args.(Args).TeamMembers[0].Name)

	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"member without name", `{"teamMembers":[{"name":"  "}]}`, "teamMembers[0].name"},
		{"too many members", `{"teamMembers":[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"},{"name":"e"},{"name":"f"},{"name":"g"},{"name":"h"},{"name":"i"},{"name":"j"},{"name":"k"}]}`, "teamMembers"},
		{"long project name", `{"projectName":"` + strings.Repeat("x", 201) + `"}`, "projectName"},
		{"wrong type", `{"goal":7}`, "goal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tool.Decode(json.RawMessage(tt.raw))
			var verr *tools.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Details[0].Field)
		})
	}
}

func TestSpec(t *testing.T) {
	spec := New(nil, nil, nil).Spec()
	assert.Equal(t, "draft_message", spec.Name)
	assert.NotEmpty(t, spec.Triggers)
}
