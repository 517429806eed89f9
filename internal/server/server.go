// Package server exposes the concierge over HTTP and runs every long-lived
// listener of the process.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/lewisedginton/teambuilder_concierge/internal/concierge"
	"github.com/lewisedginton/teambuilder_concierge/internal/middleware"
	"github.com/lewisedginton/teambuilder_concierge/internal/monitoring"
	pkgconfig "github.com/lewisedginton/teambuilder_concierge/pkg/config"
	"github.com/lewisedginton/teambuilder_concierge/pkg/httpmiddleware"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
	"github.com/lewisedginton/teambuilder_concierge/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

// Connector is a long-running front end such as the Telegram poller. Start
// blocks until ctx is cancelled.
type Connector interface {
	Name() string
	Start(ctx context.Context) error
}

// Options wires the HTTP API.
type Options struct {
	Orchestrator *concierge.Orchestrator
	Health       *monitoring.HealthMonitor
	Logger       logger.Logger
	Metrics      *metrics.Metrics

	Version      string
	ProviderName string

	HTTP           pkgconfig.HTTPServerConfig
	CORSOrigins    []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	// MetricsPort serves /metrics separately when non-zero and Metrics is set.
	MetricsPort int
	Connectors  []Connector
}

// Server owns the API listener, the metrics listener and any connectors.
type Server struct {
	opts    Options
	log     logger.Logger
	api     *http.Server
	metrics *http.Server
}

func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Health == nil {
		opts.Health = monitoring.NewHealthMonitor(monitoring.Config{
			Logger:       opts.Logger,
			Version:      opts.Version,
			ProviderName: opts.ProviderName,
		})
	}

	s := &Server{opts: opts, log: opts.Logger}
	s.api = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.HTTP.Port),
		Handler:           s.Router(),
		ReadTimeout:       opts.HTTP.ReadTimeout(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      opts.HTTP.WriteTimeout(),
		IdleTimeout:       opts.HTTP.IdleTimeout(),
		MaxHeaderBytes:    opts.HTTP.MaxHeaderBytes,
	}
	if opts.Metrics != nil && opts.MetricsPort > 0 {
		s.metrics = opts.Metrics.Server(opts.MetricsPort)
	}
	return s
}

// Router builds the chi router with the shared middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	mw := httpmiddleware.DefaultConfig()
	mw.Logger = s.log
	mw.Metrics = s.opts.Metrics
	mw.Recovery = middleware.Recovery(middleware.DefaultRecoveryConfig(s.log))
	if len(s.opts.CORSOrigins) > 0 {
		mw.CORS.AllowedOrigins = s.opts.CORSOrigins
	}
	if s.opts.MaxBodyBytes > 0 {
		mw.MaxBodyBytes = s.opts.MaxBodyBytes
	}
	if s.opts.RequestTimeout > 0 {
		mw.Timeout = s.opts.RequestTimeout
	}
	httpmiddleware.ApplyToRouter(r, mw)

	h := &handlers{orchestrator: s.opts.Orchestrator, log: s.log, version: s.opts.Version, provider: s.opts.ProviderName}

	r.Get("/", h.index)
	s.opts.Health.RegisterRoutes(r)

	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/chat", h.chat)
		r.Get("/tools", h.listTools)
		r.Post("/tools/{tool}", h.invokeTool)
		r.Post("/draft", h.draftInvite)
	})
	return r
}

// Run listens on the configured ports until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.api.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.api.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the API on ln plus the metrics server and connectors. The
// first failure cancels the rest. A cancelled ctx shuts everything down and
// returns nil.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info("HTTP API listening", logger.StringField("addr", ln.Addr().String()))
		if err := s.api.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http api: %w", err)
		}
		return nil
	})

	if s.metrics != nil {
		g.Go(func() error {
			if err := utils.ServeHTTP(gctx, s.metrics, "metrics", s.log); err != nil {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
	}

	for _, c := range s.opts.Connectors {
		g.Go(func() error {
			s.log.Info("Starting connector", logger.StringField("connector", c.Name()))
			if err := c.Start(gctx); err != nil {
				return fmt.Errorf("%s connector: %w", c.Name(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.opts.Health.MarkShuttingDown()
		s.log.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.api.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http api shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
