package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

// Invocation sources recorded in metrics.
const (
	SourcePipeline = "pipeline"
	SourceDirect   = "direct"
)

// Executor is the tool registry. It is immutable after construction.
type Executor struct {
	tools   map[Name]Tool
	order   []Name
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewExecutor registers ts in order. A later tool with a duplicate name
// replaces the earlier one.
func NewExecutor(log logger.Logger, m *metrics.Metrics, ts ...Tool) *Executor {
	if log == nil {
		log = logger.NewNop()
	}
	e := &Executor{tools: make(map[Name]Tool, len(ts)), log: log, metrics: m}
	for _, t := range ts {
		if _, exists := e.tools[t.Name()]; !exists {
			e.order = append(e.order, t.Name())
		}
		e.tools[t.Name()] = t
	}
	return e
}

// Names lists registered tools in registration order.
func (e *Executor) Names() []Name {
	return append([]Name(nil), e.order...)
}

// Specs describes the registered tools for the planner prompt.
func (e *Executor) Specs() []prompt_manager.ToolSpec {
	specs := make([]prompt_manager.ToolSpec, 0, len(e.order))
	for _, n := range e.order {
		specs = append(specs, e.tools[n].Spec())
	}
	return specs
}

func (e *Executor) Has(name Name) bool {
	_, ok := e.tools[name]
	return ok
}

// Execute is the pipeline path: arguments are coerced and every failure is
// absorbed into the empty result.
func (e *Executor) Execute(ctx context.Context, name Name, args map[string]any) Result {
	log := logger.FromContext(ctx, e.log).WithFields(logger.ToolField(string(name)))

	tool, ok := e.tools[name]
	if !ok {
		log.Debug("No tool registered, returning empty result")
		e.metrics.ObserveTool(string(name), SourcePipeline, "unknown")
		return Result{}
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := tool.Run(ctx, tool.Coerce(args))
	if err != nil {
		log.Warn("Tool failed, returning empty result", logger.ErrorField(err))
		e.metrics.ObserveTool(string(name), SourcePipeline, "error")
		return Result{}
	}

	log.Debug("Tool executed", logger.StringField("result_kind", result.Kind.String()))
	e.metrics.ObserveTool(string(name), SourcePipeline, "ok")
	return result
}

// Invoke is the direct path. Invalid arguments are reported as a
// *ValidationError rather than corrected.
func (e *Executor) Invoke(ctx context.Context, name string, raw json.RawMessage) (Result, error) {
	log := logger.FromContext(ctx, e.log).WithFields(logger.ToolField(name))

	tool, ok := e.tools[Name(name)]
	if !ok {
		e.metrics.ObserveTool(name, SourceDirect, "unknown")
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	args, err := tool.Decode(raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			log.Info("Rejected tool input", logger.ErrorField(err))
		}
		e.metrics.ObserveTool(name, SourceDirect, "invalid")
		return Result{}, err
	}

	result, err := tool.Run(ctx, args)
	if err != nil {
		log.Error("Tool failed", logger.ErrorField(err))
		e.metrics.ObserveTool(name, SourceDirect, "error")
		return Result{}, fmt.Errorf("%s: %w", name, err)
	}

	e.metrics.ObserveTool(name, SourceDirect, "ok")
	return result, nil
}
