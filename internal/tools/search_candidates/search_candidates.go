// Package search_candidates finds teammates in the user directory by skill,
// college and year.
package search_candidates //nolint:revive // var-naming: using underscores for domain clarity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	MinYear      = 1
	MaxYear      = 5
)

// Args are the search arguments. Nil pointers take their defaults.
type Args struct {
	Skills []string `json:"skills" validate:"max=20,dive,max=64"`
	// RequireAvailable defaults to true.
	RequireAvailable *bool               `json:"requireAvailable"`
	MatchMode        directory.MatchMode `json:"matchMode" validate:"omitempty,oneof=any all"`
	// Limit zero means DefaultLimit.
	Limit   int    `json:"limit" validate:"min=0,max=100"`
	College string `json:"college" validate:"max=100"`
	Year    *int   `json:"year" validate:"omitnil,min=1,max=5"`
}

// Filter applies defaults and skill normalisation.
func (a Args) Filter() directory.Filter {
	f := directory.Filter{
		Skills:           tools.NormalizeSkills(a.Skills),
		MatchMode:        a.MatchMode,
		RequireAvailable: a.RequireAvailable == nil || *a.RequireAvailable,
		College:          strings.TrimSpace(a.College),
		Limit:            a.Limit,
	}
	if f.MatchMode != directory.MatchAll {
		f.MatchMode = directory.MatchAny
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if a.Year != nil {
		f.Year = *a.Year
	}
	return f
}

type Tool struct {
	dir directory.Directory
}

var _ tools.Tool = (*Tool)(nil)

func New(dir directory.Directory) *Tool {
	return &Tool{dir: dir}
}

func (t *Tool) Name() tools.Name { return tools.SearchCandidates }

func (t *Tool) Spec() prompt_manager.ToolSpec {
	return prompt_manager.ToolSpec{
		Name:        string(tools.SearchCandidates),
		Description: "use when user wants to find/search/match people by skills, college or year",
		Triggers:    []string{"find React devs", "who knows Python", "build my team for fintech", "need someone for pitch"},
		Arguments:   `{"skills": ["skill1", "skill2"], "requireAvailable": true, "matchMode": "any", "limit": 20, "college": null, "year": null}`,
		Examples: []string{
			`For "build my team for fintech hack need React, Node.js backend, and someone for pitch" → tool: search_candidates, skills: ["React", "Node.js", "pitch", "presentation"]`,
			`For "someone who knows both React and Node.js" → tool: search_candidates, skills: ["React", "Node.js"], matchMode: "all"`,
			`For "third years from BIT Mesra who do ML" → tool: search_candidates, skills: ["Machine Learning"], college: "BIT Mesra", year: 3`,
		},
	}
}

// Coerce accepts camelCase and snake_case keys, comma-separated skills and
// numeric strings. Out-of-range values are clamped or dropped.
func (t *Tool) Coerce(args map[string]any) any {
	var a Args
	if v, ok := tools.Lookup(args, "skills"); ok {
		a.Skills = tools.StringList(v)
	}
	if v, ok := tools.Lookup(args, "requireAvailable", "require_available", "availability_required", "availabilityRequired"); ok {
		if b, ok := tools.Bool(v); ok {
			a.RequireAvailable = &b
		}
	}
	if v, ok := tools.Lookup(args, "matchMode", "match_mode"); ok {
		if mode := directory.MatchMode(strings.ToLower(tools.String(v))); mode == directory.MatchAll {
			a.MatchMode = mode
		}
	}
	if v, ok := tools.Lookup(args, "limit"); ok {
		if n, ok := tools.Int(v); ok {
			a.Limit = min(max(n, 1), MaxLimit)
		}
	}
	if v, ok := tools.Lookup(args, "college"); ok {
		a.College = tools.String(v)
	}
	if v, ok := tools.Lookup(args, "year"); ok {
		if n, ok := tools.Int(v); ok && n >= MinYear && n <= MaxYear {
			a.Year = &n
		}
	}
	return a
}

func (t *Tool) Decode(raw json.RawMessage) (any, error) {
	var a Args
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, tools.DecodeError(tools.SearchCandidates, err)
		}
	}
	if err := tools.ValidateStruct(tools.SearchCandidates, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Run searches the directory. A filter with no skills, college or year
// returns no candidates instead of the whole directory.
func (t *Tool) Run(ctx context.Context, args any) (tools.Result, error) {
	a, ok := args.(Args)
	if !ok {
		return tools.Result{}, fmt.Errorf("search_candidates: unexpected argument type %T", args)
	}

	f := a.Filter()
	if !f.Scoped() {
		return tools.CandidatesResult(nil), nil
	}

	candidates, err := t.dir.FindUsers(ctx, f)
	if err != nil {
		return tools.Result{}, fmt.Errorf("search directory: %w", err)
	}
	return tools.CandidatesResult(candidates), nil
}
