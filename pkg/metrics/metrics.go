// Package metrics owns the Prometheus registry for the concierge: HTTP
// request metrics plus the pipeline collectors recorded by the completion
// client, the tool executor and the orchestrator.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "concierge"

var latencyBuckets = []float64{0.05, 0.1, 0.3, 0.5, 1, 2, 5, 10, 30, 60}

// Metrics is a registry with the collectors every binary exposes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	completionCalls    *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
	toolInvocations    *prometheus.CounterVec
	stageDuration      *prometheus.HistogramVec
	plannerFallbacks   prometheus.Counter
}

// NewMetrics registers all collectors on a fresh registry. withRuntime adds
// the Go and process collectors.
func NewMetrics(withRuntime bool) *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   latencyBuckets,
		}, []string{"method"}),
		completionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_calls_total",
			Help:      "Completion calls by provider and outcome.",
		}, []string{"provider", "json_mode", "outcome"}),
		completionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Completion call latency by provider.",
			Buckets:   latencyBuckets,
		}, []string{"provider"}),
		toolInvocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_invocations_total",
			Help:      "Tool invocations by tool, entry point and outcome.",
		}, []string{"tool", "source", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Time spent in each orchestrator stage.",
			Buckets:   latencyBuckets,
		}, []string{"stage"}),
		plannerFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "planner_fallbacks_total",
			Help:      "Plans that fell back to a conversational reply.",
		}),
	}

	m.reg.MustRegister(
		m.httpRequests, m.httpDuration,
		m.completionCalls, m.completionDuration,
		m.toolInvocations, m.stageDuration, m.plannerFallbacks,
	)
	if withRuntime {
		m.reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Server returns an *http.Server exposing /metrics on port. The caller owns
// its lifecycle.
func (m *Metrics) Server(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// ObserveCompletion records one completion call.
func (m *Metrics) ObserveCompletion(provider string, jsonMode bool, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.completionCalls.WithLabelValues(provider, strconv.FormatBool(jsonMode), outcome).Inc()
	m.completionDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveTool records one tool invocation. source is "pipeline" or "direct".
func (m *Metrics) ObserveTool(tool, source, outcome string) {
	if m == nil {
		return
	}
	m.toolInvocations.WithLabelValues(tool, source, outcome).Inc()
}

// ObserveStage records time spent in an orchestrator stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// IncPlannerFallback counts a conversational fallback.
func (m *Metrics) IncPlannerFallback() {
	if m == nil {
		return
	}
	m.plannerFallbacks.Inc()
}

// HTTPMiddleware counts requests and their latency.
func (m *Metrics) HTTPMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
			next.ServeHTTP(rw, r)

			m.httpRequests.WithLabelValues(r.Method, strconv.Itoa(rw.code)).Inc()
			m.httpDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (s *statusWriter) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}
