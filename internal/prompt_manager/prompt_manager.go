// Package prompt_manager renders every prompt sent to the completion
// provider. Templates are embedded and can be overridden from a directory.
// User text is embedded verbatim; nothing is sanitised.
package prompt_manager //nolint:revive // var-naming: underscore kept for consistency with other packages

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var embedded embed.FS

const (
	plannerTemplate      = "planner.tmpl"
	conversationTemplate = "conversation.tmpl"
	draftTemplate        = "draft.tmpl"
	inviteTemplate       = "invite.tmpl"
)

var required = []string{plannerTemplate, conversationTemplate, draftTemplate, inviteTemplate}

// ToolSpec describes one registered tool to the planner.
type ToolSpec struct {
	Name        string
	Description string
	Triggers    []string
	// Arguments is a JSON sketch of the expected argument object.
	Arguments string
	// Examples are worked instructions appended to the planner rules.
	Examples []string
}

// Person is a name plus skills, used for team members and invite parties.
type Person struct {
	Name   string
	Skills []string
}

type PlanningInput struct {
	Message string
	Context string
	Tools   []ToolSpec
}

type DraftInput struct {
	ProjectName string
	Goal        string
	Members     []Person
}

type InviteInput struct {
	Sender         Person
	Receiver       Person
	ProjectContext string
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"quoteAll": func(ss []string) string {
		quoted := make([]string, len(ss))
		for i, s := range ss {
			quoted[i] = strconv.Quote(s)
		}
		return strings.Join(quoted, ", ")
	},
	"toolChoices": func(tools []ToolSpec) string {
		names := make([]string, 0, len(tools)+1)
		for _, t := range tools {
			names = append(names, strconv.Quote(t.Name))
		}
		names = append(names, `"none"`)
		return strings.Join(names, "|")
	},
	"memberName": func(i int, name string) string {
		if strings.TrimSpace(name) == "" {
			return fmt.Sprintf("Member %d", i+1)
		}
		return name
	},
	"skillList": func(skills []string) string {
		if len(skills) == 0 {
			return "Not specified"
		}
		return strings.Join(skills, ", ")
	},
}

// PromptManager holds the parsed template set.
type PromptManager struct {
	tmpl *template.Template
}

// New parses every *.tmpl file in fsys. All four prompt templates must be
// present.
func New(fsys fs.FS) (*PromptManager, error) {
	if fsys == nil {
		return nil, fmt.Errorf("template filesystem cannot be nil")
	}
	tmpl, err := template.New("prompts").Funcs(funcs).ParseFS(fsys, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt templates: %w", err)
	}
	for _, name := range required {
		if tmpl.Lookup(name) == nil {
			return nil, fmt.Errorf("prompt template %s is missing", name)
		}
	}
	return &PromptManager{tmpl: tmpl}, nil
}

// Default returns the embedded template set.
func Default() *PromptManager {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	m, err := New(sub)
	if err != nil {
		panic(err)
	}
	return m
}

// FromDir loads templates from dir, or the embedded set when dir is empty.
func FromDir(dir string) (*PromptManager, error) {
	if dir == "" {
		return Default(), nil
	}
	return New(os.DirFS(dir))
}

func (m *PromptManager) Planning(in PlanningInput) (string, error) {
	return m.render(plannerTemplate, in)
}

func (m *PromptManager) Conversation(message string) (string, error) {
	return m.render(conversationTemplate, struct{ Message string }{message})
}

func (m *PromptManager) Draft(in DraftInput) (string, error) {
	return m.render(draftTemplate, in)
}

func (m *PromptManager) Invite(in InviteInput) (string, error) {
	return m.render(inviteTemplate, in)
}

func (m *PromptManager) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
