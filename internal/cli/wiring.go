package cli

import (
	"context"
	"fmt"

	"github.com/lewisedginton/teambuilder_concierge/internal/completion"
	"github.com/lewisedginton/teambuilder_concierge/internal/concierge"
	appconfig "github.com/lewisedginton/teambuilder_concierge/internal/config"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory/memory"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory/postgres"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory/sqlite"
	"github.com/lewisedginton/teambuilder_concierge/internal/models"
	"github.com/lewisedginton/teambuilder_concierge/internal/prompt_manager"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools/draft_message"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools/search_candidates"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
	"github.com/lewisedginton/teambuilder_concierge/pkg/metrics"
)

// migrator is implemented by the SQL directory backends.
type migrator interface {
	Migrate(up bool) error
}

// openDirectory connects the configured backend. The in-memory backend
// always starts with the demo roster; SQL backends get it when seed_demo is
// set.
func openDirectory(ctx context.Context, cfg *appconfig.AppConfig, log logger.Logger) (directory.Directory, error) {
	var (
		dir directory.Directory
		err error
	)
	switch cfg.Directory.Driver {
	case appconfig.DirectoryMemory:
		return memory.New(directory.DemoUsers()...), nil
	case appconfig.DirectorySQLite:
		dir, err = sqlite.Open(cfg.Directory.SQLitePath, cfg.Directory.AutoMigrate, log)
	case appconfig.DirectoryPostgres:
		dir, err = postgres.Open(ctx, cfg.Directory.Postgres, cfg.Directory.AutoMigrate, log)
	default:
		return nil, fmt.Errorf("unknown directory driver %q", cfg.Directory.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s directory: %w", cfg.Directory.Driver, err)
	}

	if cfg.Directory.SeedDemo {
		n, err := directory.Seed(ctx, dir, directory.DemoUsers())
		if err != nil {
			_ = dir.Close()
			return nil, fmt.Errorf("seed demo roster: %w", err)
		}
		log.Info("Seeded demo roster", logger.IntField("users", n))
	}
	return dir, nil
}

// app is everything one process invocation shares.
type app struct {
	dir          directory.Directory
	completer    *completion.Client
	orchestrator *concierge.Orchestrator
}

// buildApp wires provider, tools and orchestrator around dir. When strict
// is false a provider that cannot be built is replaced by none, so one-shot
// commands still answer with placeholders.
func buildApp(ctx context.Context, cfg *appconfig.AppConfig, dir directory.Directory, log logger.Logger, m *metrics.Metrics, strict bool) (*app, error) {
	provider, err := models.NewProvider(ctx, cfg)
	if err != nil {
		if strict {
			return nil, fmt.Errorf("create LLM provider: %w", err)
		}
		log.Warn("No usable LLM provider, continuing without one", logger.ErrorField(err))
		provider = nil
	}

	prompts, err := prompt_manager.FromDir(cfg.LLM.PromptsDir)
	if err != nil {
		return nil, fmt.Errorf("load prompts: %w", err)
	}

	client := completion.NewClient(provider, completion.Config{
		Timeout: cfg.LLM.Timeout(),
		Logger:  log,
		Metrics: m,
	})

	executor := tools.NewExecutor(log, m,
		search_candidates.New(dir),
		draft_message.New(client, prompts, log),
	)

	return &app{
		dir:       dir,
		completer: client,
		orchestrator: concierge.New(concierge.Config{
			Executor:  executor,
			Directory: dir,
			Completer: client,
			Prompts:   prompts,
			Logger:    log,
			Metrics:   m,
		}),
	}, nil
}
