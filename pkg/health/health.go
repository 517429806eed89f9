// Package health runs liveness and readiness checks and serves them over
// HTTP.
package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// Check is a single named probe. A nil error means healthy.
type Check interface {
	Name() string
	Check(ctx context.Context) error
}

type checkFunc struct {
	name string
	fn   func(context.Context) error
}

// NewCheckFunc adapts fn into a Check.
func NewCheckFunc(name string, fn func(context.Context) error) Check {
	return checkFunc{name: name, fn: fn}
}

func (c checkFunc) Name() string                    { return c.name }
func (c checkFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// CheckResult is the outcome of one probe.
type CheckResult struct {
	Name    string
	Healthy bool
	Error   string
	Latency time.Duration
}

// Status aggregates a probe run.
type Status struct {
	Healthy bool
	Checks  []CheckResult
}

// Failed lists unhealthy check names in order.
func (s Status) Failed() []string {
	var out []string
	for _, c := range s.Checks {
		if !c.Healthy {
			out = append(out, c.Name)
		}
	}
	return out
}

// Checker owns the registered probes. A probe is reported unhealthy only
// after threshold consecutive failures.
type Checker struct {
	mu        sync.Mutex
	liveness  []Check
	readiness []Check
	failures  map[string]int

	timeout   time.Duration
	threshold int
	log       logger.Logger
}

type Option func(*Checker)

func WithTimeout(d time.Duration) Option { return func(c *Checker) { c.timeout = d } }

func WithLogger(l logger.Logger) Option { return func(c *Checker) { c.log = l } }

func WithFailureThreshold(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.threshold = n
		}
	}
}

func New(opts ...Option) *Checker {
	c := &Checker{
		failures:  map[string]int{},
		timeout:   5 * time.Second,
		threshold: 1,
		log:       logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Checker) AddLivenessCheck(chk Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveness = append(c.liveness, chk)
}

func (c *Checker) AddReadinessCheck(chk Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readiness = append(c.readiness, chk)
}

func (c *Checker) Liveness(ctx context.Context) (Status, error) {
	c.mu.Lock()
	checks := append([]Check(nil), c.liveness...)
	c.mu.Unlock()
	return c.run(ctx, checks)
}

func (c *Checker) Readiness(ctx context.Context) (Status, error) {
	c.mu.Lock()
	checks := append([]Check(nil), c.readiness...)
	c.mu.Unlock()
	return c.run(ctx, checks)
}

func (c *Checker) run(ctx context.Context, checks []Check) (Status, error) {
	results := make([]CheckResult, len(checks))

	// probes report through results, never through the group error
	var g errgroup.Group
	for i, chk := range checks {
		g.Go(func() error {
			results[i] = c.probe(ctx, chk)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(results, func(a, b int) bool { return results[a].Name < results[b].Name })
	status := Status{Healthy: true, Checks: results}
	if failed := status.Failed(); len(failed) > 0 {
		status.Healthy = false
		return status, fmt.Errorf("health checks failed: %s", strings.Join(failed, ", "))
	}
	return status, nil
}

func (c *Checker) probe(parent context.Context, chk Check) CheckResult {
	ctx, cancel := context.WithTimeout(parent, c.timeout)
	defer cancel()

	start := time.Now()
	err := chk.Check(ctx)
	res := CheckResult{Name: chk.Name(), Healthy: true, Latency: time.Since(start)}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.failures[res.Name] = 0
		return res
	}

	c.failures[res.Name]++
	n := c.failures[res.Name]
	fields := []logger.LogField{
		logger.StringField("check", res.Name),
		logger.ErrorField(err),
		logger.IntField("consecutive_failures", n),
	}
	if n < c.threshold {
		c.log.Debug("Health check failed below threshold", fields...)
		return res
	}

	c.log.Warn("Health check failed", fields...)
	res.Healthy = false
	res.Error = err.Error()
	return res
}
