// Package monitoring wires the concierge's dependencies into health checks.
package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lewisedginton/teambuilder_concierge/pkg/health"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// Pinger is satisfied by every directory backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectorHealthCheck represents a connector that can perform health checks
type ConnectorHealthCheck interface {
	Ready() error
}

// ErrNoProvider fails the provider readiness check.
var ErrNoProvider = errors.New("no AI provider configured")

// Config holds configuration for the health monitor
type Config struct {
	Logger    logger.Logger
	Version   string
	Directory Pinger
	// ProviderName is the active completion provider, "none" or empty when
	// unconfigured.
	ProviderName      string
	TelegramConnector ConnectorHealthCheck
	Timeout           time.Duration
	FailureThreshold  int
}

// HealthMonitor owns the checker behind the /health endpoints.
type HealthMonitor struct {
	checker   *health.Checker
	version   string
	startTime time.Time
	shutdown  chan struct{}
}

func NewHealthMonitor(cfg Config) *HealthMonitor {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 1
	}

	hm := &HealthMonitor{
		checker: health.New(
			health.WithLogger(cfg.Logger),
			health.WithTimeout(cfg.Timeout),
			health.WithFailureThreshold(cfg.FailureThreshold),
		),
		version:   cfg.Version,
		startTime: time.Now(),
		shutdown:  make(chan struct{}),
	}

	hm.checker.AddLivenessCheck(health.NewCheckFunc("process", func(context.Context) error {
		return nil
	}))
	hm.checker.AddReadinessCheck(health.NewCheckFunc("shutdown", func(context.Context) error {
		select {
		case <-hm.shutdown:
			return errors.New("shutting down")
		default:
			return nil
		}
	}))

	if cfg.Directory != nil {
		hm.checker.AddReadinessCheck(health.NewCheckFunc("directory", cfg.Directory.Ping))
	}

	provider := cfg.ProviderName
	hm.checker.AddReadinessCheck(health.NewCheckFunc("provider", func(context.Context) error {
		if provider == "" || provider == "none" {
			return ErrNoProvider
		}
		return nil
	}))

	if cfg.TelegramConnector != nil {
		hm.checker.AddReadinessCheck(health.NewCheckFunc("telegram_connector", func(context.Context) error {
			if err := cfg.TelegramConnector.Ready(); err != nil {
				return fmt.Errorf("telegram: %w", err)
			}
			return nil
		}))
	}

	return hm
}

// Uptime since the monitor was created.
func (hm *HealthMonitor) Uptime() time.Duration { return time.Since(hm.startTime) }

// Readiness runs the readiness checks once.
func (hm *HealthMonitor) Readiness(ctx context.Context) (health.Status, error) {
	return hm.checker.Readiness(ctx)
}

// RegisterRoutes mounts /health, /health/live and /health/ready.
func (hm *HealthMonitor) RegisterRoutes(r chi.Router) {
	r.Get("/health", hm.checker.SummaryHandler(hm.version))
	r.Get("/health/live", hm.checker.LivenessHandler())
	r.Get("/health/ready", hm.checker.ReadinessHandler())
}

// MarkShuttingDown fails readiness from now on. It is safe to call twice.
func (hm *HealthMonitor) MarkShuttingDown() {
	select {
	case <-hm.shutdown:
	default:
		close(hm.shutdown)
	}
}
