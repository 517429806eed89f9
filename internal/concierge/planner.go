package concierge

import (
	"context"
	"strings"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
	"github.com/lewisedginton/teambuilder_concierge/pkg/utils"
)

// Planner decides which tool a request needs.
type Planner interface {
	Plan(ctx context.Context, req ChatRequest) Plan
}

// LLMPlanner asks the completion provider for a JSON plan and falls back to
// a conversational reply when none can be recovered.
type LLMPlanner struct {
	completer completion.Completer
	prompts   *prompt_manager.PromptManager
	specs     []prompt_manager.ToolSpec
	known     map[tools.Name]bool
	log       logger.Logger
	metrics   *metrics.Metrics
}

var _ Planner = (*LLMPlanner)(nil)

// NewLLMPlanner offers exactly the tools described by specs.
func NewLLMPlanner(c completion.Completer, prompts *prompt_manager.PromptManager, specs []prompt_manager.ToolSpec, log logger.Logger, m *metrics.Metrics) *LLMPlanner {
	if prompts == nil {
		prompts = prompt_manager.Default()
	}
	if log == nil {
		log = logger.NewNop()
	}
	if c == nil {
		c = completion.NewClient(nil, completion.Config{Logger: log})
	}
	known := make(map[tools.Name]bool, len(specs))
	for _, s := range specs {
		known[tools.Name(s.Name)] = true
	}
	return &LLMPlanner{completer: c, prompts: prompts, specs: specs, known: known, log: log, metrics: m}
}

func (p *LLMPlanner) Plan(ctx context.Context, req ChatRequest) Plan {
	log := logger.FromContext(ctx, p.log)

	prompt, err := p.prompts.Planning(prompt_manager.PlanningInput{
		Message: req.Message,
		Context: req.Context,
		Tools:   p.specs,
	})
	if err != nil {
		return p.fallback(ctx, log, req, "prompt render failed")
	}

	raw, err := p.completer.Complete(ctx, prompt, completion.Options{JSONMode: true})
	if err != nil {
		return p.fallback(ctx, log, req, "planning completion failed")
	}

	obj := ParseObject(raw)
	if obj == nil {
		return p.fallback(ctx, log, req, "unparsable plan")
	}
	toolName, ok := obj["tool"].(string)
	if !ok {
		return p.fallback(ctx, log, req, "plan has no tool")
	}

	return p.normalize(log, toolName, obj)
}

func (p *LLMPlanner) normalize(log logger.Logger, toolName string, obj map[string]any) Plan {
	plan := Plan{Tool: tools.None, Arguments: map[string]any{}}

	if name, ok := tools.ParseName(toolName); ok && (name == tools.None || p.known[name]) {
		plan.Tool = name
	} else {
		log.Debug("Planner chose an unknown tool, using none", logger.StringField("requested_tool", toolName))
	}
	if args, ok := obj["arguments"].(map[string]any); ok {
		plan.Arguments = args
	}

	for _, key := range []string{"clarifyingQuestion", "clarifying_question", "ask_user"} {
		if q, ok := obj[key].(string); ok && strings.TrimSpace(q) != "" {
			plan.ClarifyingQuestion = utils.ToPtr(q)
			break
		}
	}

	// a selected tool takes precedence over a clarifying question
	if plan.Tool != tools.None && plan.ClarifyingQuestion != nil {
		log.Debug("Dropping clarifying question in favour of tool", logger.ToolField(string(plan.Tool)))
		plan.ClarifyingQuestion = nil
	}
	return plan
}

func (p *LLMPlanner) fallback(ctx context.Context, log logger.Logger, req ChatRequest, reason string) Plan {
	p.metrics.IncPlannerFallback()
	log.Info("Planner falling back to conversation", logger.StringField("reason", reason))

	prompt, err := p.prompts.Conversation(req.Message)
	reply := ""
	if err == nil {
		reply, err = p.completer.Complete(ctx, prompt, completion.Options{})
	}
	if err != nil {
		reply = completion.Placeholder(err)
	}
	return Plan{Tool: tools.None, Arguments: map[string]any{}, ClarifyingQuestion: utils.ToPtr(reply)}
}
