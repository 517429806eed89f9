// Package tools holds the tool registry and executor. Each tool lives in its
// own subpackage and is registered at construction time.
package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
)

// Name identifies a tool.
type Name string

const (
	SearchCandidates Name = "search_candidates"
	DraftMessage     Name = "draft_message"
	None             Name = "none"
)

var aliases = map[string]Name{
	"match_candidates_by_skill": SearchCandidates,
	"draft_intro_message":       DraftMessage,
}

// ParseName lower-cases and trims s and resolves legacy aliases. Unknown
// names map to None with ok false.
func ParseName(s string) (name Name, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch n := Name(s); n {
	case SearchCandidates, DraftMessage, None:
		return n, true
	}
	if n, found := aliases[s]; found {
		return n, true
	}
	return None, false
}

// Tool is implemented by every registered capability.
type Tool interface {
	Name() Name
	// Spec describes the tool to the planner prompt.
	Spec() prompt_manager.ToolSpec
	// Coerce turns model-produced arguments into usable ones, clamping and
	// defaulting instead of failing.
	Coerce(args map[string]any) any
	// Decode parses caller-supplied arguments and validates them. Invalid
	// input yields a *ValidationError.
	Decode(raw json.RawMessage) (any, error)
	// Run executes with arguments produced by Coerce or Decode.
	Run(ctx context.Context, args any) (Result, error)
}

type ResultKind int

const (
	KindEmpty ResultKind = iota
	KindCandidates
	KindDraft
)

func (k ResultKind) String() string {
	switch k {
	case KindCandidates:
		return "candidates"
	case KindDraft:
		return "draft"
	}
	return "empty"
}

// Result is a tagged union; exactly the payload named by Kind is set. The
// zero value is the empty result.
type Result struct {
	Kind       ResultKind
	Candidates []directory.Candidate
	Draft      string
}

func CandidatesResult(cs []directory.Candidate) Result {
	if cs == nil {
		cs = []directory.Candidate{}
	}
	return Result{Kind: KindCandidates, Candidates: cs}
}

func DraftResult(text string) Result {
	return Result{Kind: KindDraft, Draft: text}
}

// MarshalJSON renders {"candidates":[...]}, {"draft":"..."} or null.
func (r Result) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case KindCandidates:
		cs := r.Candidates
		if cs == nil {
			cs = []directory.Candidate{}
		}
		return json.Marshal(struct {
			Candidates []directory.Candidate `json:"candidates"`
		}{cs})
	case KindDraft:
		return json.Marshal(struct {
			Draft string `json:"draft"`
		}{r.Draft})
	}
	return []byte("null"), nil
}

func (r *Result) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Result{}
		return nil
	}
	var raw struct {
		Candidates *[]directory.Candidate `json:"candidates"`
		Draft      *string                `json:"draft"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Candidates != nil:
		*r = CandidatesResult(*raw.Candidates)
	case raw.Draft != nil:
		*r = DraftResult(*raw.Draft)
	default:
		return fmt.Errorf("tool result has neither candidates nor draft")
	}
	return nil
}
