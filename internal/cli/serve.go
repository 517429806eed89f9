package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/teambuilder_concierge/internal/connectors/telegram"
	"github.com/lewisedginton/teambuilder_concierge/internal/monitoring"
	"github.com/lewisedginton/teambuilder_concierge/internal/server"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

// ServeCommand runs the HTTP API, the metrics listener and, when a token is
// configured, the Telegram bot.
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the HTTP API (and Telegram bot when configured)",
		Action:  serveAction,
	}
}

func serveAction(ctx *cli.Context) error {
	log := getLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", logger.ErrorField(err))
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.LogConfig(log)

	m := metrics.NewMetrics(true)

	dir, err := openDirectory(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := dir.Close(); err != nil {
			log.Warn("Failed to close directory", logger.ErrorField(err))
		}
	}()

	a, err := buildApp(ctx.Context, cfg, dir, log, m, true)
	if err != nil {
		return err
	}

	var (
		connectors []server.Connector
		tgHealth   monitoring.ConnectorHealthCheck
	)
	if cfg.Telegram.Enabled() {
		tg, err := telegram.NewConnector(telegram.Config{
			BotToken: cfg.Telegram.BotToken,
			Debug:    cfg.Telegram.Debug,
			Logger:   log,
		}, a.orchestrator)
		if err != nil {
			return fmt.Errorf("failed to create Telegram connector: %w", err)
		}
		connectors = append(connectors, tg)
		tgHealth = tg
	} else {
		log.Info("Telegram connector disabled (missing TELEGRAM_BOT_TOKEN)")
	}

	health := monitoring.NewHealthMonitor(monitoring.Config{
		Logger:            log,
		Version:           cfg.Common.Version,
		Directory:         dir,
		ProviderName:      a.completer.ProviderName(),
		TelegramConnector: tgHealth,
		Timeout:           cfg.Health.Timeout,
		FailureThreshold:  cfg.Health.FailureThreshold,
	})

	metricsPort := 0
	if cfg.Metrics.Enabled {
		metricsPort = cfg.Metrics.Port
	}

	return server.New(server.Options{
		Orchestrator: a.orchestrator,
		Health:       health,
		Logger:       log,
		Metrics:      m,
		Version:      cfg.Common.Version,
		ProviderName: a.completer.ProviderName(),
		HTTP:         cfg.HTTP,
		CORSOrigins:  cfg.Security.CORSAllowedOrigins,
		MaxBodyBytes: cfg.Security.MaxRequestSize,
		MetricsPort:  metricsPort,
		Connectors:   connectors,
	}).Run(ctx.Context)
}
