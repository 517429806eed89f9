// Package completion is the single doorway to the configured text
// generation provider. Every failure mode of a provider call (transport
// errors, provider error payloads, timeouts, empty output, adapter panics)
// is normalised to an *Error so callers can pick a fallback instead of
// propagating it.
package completion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

// DefaultTimeout bounds a single provider call when none is configured.
const DefaultTimeout = 30 * time.Second

// JSONSystemPrompt accompanies every JSON-mode request.
const JSONSystemPrompt = "You are a JSON-only planner. Respond with only a valid JSON object and no surrounding text."

// Request is what a Provider receives.
type Request struct {
	System   string
	Prompt   string
	JSONMode bool
}

// Provider is implemented by each vendor adapter in internal/models.
type Provider interface {
	Name() string
	// SupportsJSONMode reports whether the provider can constrain output to
	// a JSON object.
	SupportsJSONMode() bool
	Generate(ctx context.Context, req Request) (string, error)
}

// Options tune one Complete call.
type Options struct {
	JSONMode bool
	System   string
}

// Completer is the consumer-side view of Client.
type Completer interface {
	Complete(ctx context.Context, prompt string, opts Options) (string, error)
}

// Config wires optional collaborators into a Client.
type Config struct {
	Timeout time.Duration
	Logger  logger.Logger
	Metrics *metrics.Metrics
}

// Client wraps exactly one Provider.
type Client struct {
	provider Provider
	timeout  time.Duration
	log      logger.Logger
	metrics  *metrics.Metrics
}

var _ Completer = (*Client)(nil)

// NewClient returns a Client around p. A nil p yields a client whose calls
// all fail with KindNotConfigured.
func NewClient(p Provider, cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	name := "none"
	if p != nil {
		name = p.Name()
	}

	return &Client{
		provider: p,
		timeout:  cfg.Timeout,
		log:      cfg.Logger.WithFields(logger.ProviderField(name)),
		metrics:  cfg.Metrics,
	}
}

// ProviderName is the active provider's name, or "none".
func (c *Client) ProviderName() string {
	if c.provider == nil {
		return "none"
	}
	return c.provider.Name()
}

// Complete sends prompt to the provider. The returned error, when non-nil,
// is always an *Error matching ErrUnavailable.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) (text string, err error) {
	if c.provider == nil {
		return "", &Error{Kind: KindNotConfigured, Provider: "none"}
	}

	req := Request{Prompt: prompt, System: opts.System, JSONMode: opts.JSONMode}
	if req.JSONMode {
		if req.System == "" {
			req.System = JSONSystemPrompt
		}
		if !c.provider.SupportsJSONMode() {
			c.log.Debug("Provider lacks JSON mode, sending plain completion")
			req.JSONMode = false
		}
	}

	log := logger.FromContext(ctx, c.log)
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			text, err = "", &Error{Kind: KindProvider, Provider: c.provider.Name(), Err: fmt.Errorf("adapter panic: %v", r)}
		}
		c.observe(log, opts.JSONMode, time.Since(start), err)
	}()

	text, err = c.provider.Generate(callCtx, req)
	switch {
	case err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded):
		return "", &Error{Kind: KindTimeout, Provider: c.provider.Name(), Err: err}
	case err != nil:
		return "", &Error{Kind: KindProvider, Provider: c.provider.Name(), Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", &Error{Kind: KindEmpty, Provider: c.provider.Name()}
	}
	return text, nil
}

func (c *Client) observe(log logger.Logger, jsonMode bool, d time.Duration, err error) {
	outcome := "ok"
	var cerr *Error
	if errors.As(err, &cerr) {
		outcome = string(cerr.Kind)
		log.Warn("Completion failed",
			logger.StringField("kind", outcome),
			logger.ErrorField(err),
			logger.DurationField("duration", d))
	} else {
		log.Debug("Completion succeeded",
			logger.BoolField("json_mode", jsonMode),
			logger.DurationField("duration", d))
	}
	c.metrics.ObserveCompletion(c.ProviderName(), jsonMode, outcome, d)
}
