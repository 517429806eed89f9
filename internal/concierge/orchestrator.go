package concierge

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

// Stage is a step of one Chat request.
type Stage int

const (
	StageStart Stage = iota
	StagePlanning
	StageExecuting
	StageResponding
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StagePlanning:
		return "planning"
	case StageExecuting:
		return "executing"
	case StageResponding:
		return "responding"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// next is the transition function. Executing is skipped for tools.None.
func next(s Stage, plan Plan) Stage {
	switch s {
	case StageStart:
		return StagePlanning
	case StagePlanning:
		if plan.Tool == tools.None {
			return StageResponding
		}
		return StageExecuting
	case StageExecuting:
		return StageResponding
	}
	return StageDone
}

// Config collects the orchestrator's collaborators. Planner defaults to an
// LLMPlanner over Completer and the executor's tools.
type Config struct {
	Executor  *tools.Executor
	Directory directory.Directory
	Completer completion.Completer
	Prompts   *prompt_manager.PromptManager
	Planner   Planner
	Logger    logger.Logger
	Metrics   *metrics.Metrics
}

// Orchestrator holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	planner   Planner
	executor  *tools.Executor
	directory directory.Directory
	completer completion.Completer
	prompts   *prompt_manager.PromptManager
	log       logger.Logger
	metrics   *metrics.Metrics
}

func New(cfg Config) *Orchestrator {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Prompts == nil {
		cfg.Prompts = prompt_manager.Default()
	}
	if cfg.Completer == nil {
		cfg.Completer = completion.NewClient(nil, completion.Config{Logger: cfg.Logger})
	}
	if cfg.Executor == nil {
		cfg.Executor = tools.NewExecutor(cfg.Logger, cfg.Metrics)
	}
	if cfg.Planner == nil {
		cfg.Planner = NewLLMPlanner(cfg.Completer, cfg.Prompts, cfg.Executor.Specs(), cfg.Logger, cfg.Metrics)
	}
	return &Orchestrator{
		planner:   cfg.Planner,
		executor:  cfg.Executor,
		directory: cfg.Directory,
		completer: cfg.Completer,
		prompts:   cfg.Prompts,
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
	}
}

// Chat runs plan, execute and respond for one message. It never fails:
// every degraded path still produces reply text.
func (o *Orchestrator) Chat(ctx context.Context, req ChatRequest) ChatResponse {
	ctx, _ = logger.EnsureCorrelationID(ctx)
	log := logger.FromContext(ctx, o.log)

	var (
		plan   Plan
		result tools.Result
		reply  Reply
	)

	for stage := StageStart; stage != StageDone; {
		start := time.Now()
		switch stage {
		case StagePlanning:
			plan = o.registered(log, o.planner.Plan(ctx, req))
		case StageExecuting:
			result = o.executor.Execute(ctx, plan.Tool, plan.Arguments)
		case StageResponding:
			reply = Respond(plan, result)
		}
		if stage != StageStart {
			o.metrics.ObserveStage(stage.String(), time.Since(start))
		}

		to := next(stage, plan)
		log.Debug("Stage transition",
			logger.StringField("from", stage.String()),
			logger.StringField("to", to.String()),
			logger.ToolField(string(plan.Tool)))
		stage = to
	}

	return ChatResponse{
		ReplyText:         reply.Text,
		SelectedTool:      plan.Tool,
		ToolResult:        result,
		MentionedEntities: reply.Mentioned,
	}
}

// registered downgrades a plan naming a tool the executor does not hold.
func (o *Orchestrator) registered(log logger.Logger, plan Plan) Plan {
	if plan.Arguments == nil {
		plan.Arguments = map[string]any{}
	}
	if plan.Tool == tools.None {
		return plan
	}
	if name, ok := tools.ParseName(string(plan.Tool)); ok && (name == tools.None || o.executor.Has(name)) {
		plan.Tool = name
		if name != tools.None {
			plan.ClarifyingQuestion = nil
		}
		return plan
	}
	log.Warn("Plan names an unregistered tool, answering without one", logger.ToolField(string(plan.Tool)))
	return Plan{Tool: tools.None, Arguments: map[string]any{}, ClarifyingQuestion: plan.ClarifyingQuestion}
}

// InvokeTool runs a tool directly with strictly validated arguments. Legacy
// tool names are accepted.
func (o *Orchestrator) InvokeTool(ctx context.Context, name string, raw json.RawMessage) (tools.Result, error) {
	ctx, _ = logger.EnsureCorrelationID(ctx)
	if resolved, ok := tools.ParseName(name); ok {
		name = string(resolved)
	}
	return o.executor.Invoke(ctx, name, raw)
}

// Tools lists the registered tool names.
func (o *Orchestrator) Tools() []tools.Name {
	return o.executor.Names()
}
