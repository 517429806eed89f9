package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	appconfig "github.com/lewisedginton/teambuilder_concierge/internal/config"
	"github.com/lewisedginton/teambuilder_concierge/internal/directory"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// MigrateCommand applies or rolls back the SQL directory schema.
func MigrateCommand() *cli.Command {
	run := func(up bool) cli.ActionFunc {
		return func(ctx *cli.Context) error {
			log := getLogger(ctx)
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			if cfg.Directory.Driver == appconfig.DirectoryMemory {
				return fmt.Errorf("migrate needs a SQL directory driver, got %q", cfg.Directory.Driver)
			}

			// open without auto-migration so "down" is not preceded by "up"
			cfg.Directory.AutoMigrate = false
			cfg.Directory.SeedDemo = false
			dir, err := openDirectory(ctx.Context, cfg, log)
			if err != nil {
				return err
			}
			defer dir.Close()

			m, ok := dir.(migrator)
			if !ok {
				return fmt.Errorf("directory driver %q does not support migrations", cfg.Directory.Driver)
			}
			if err := m.Migrate(up); err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, "Migrations applied")
			return nil
		}
	}

	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the directory schema",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "Apply all pending migrations", Action: run(true)},
			{Name: "down", Usage: "Roll back all migrations", Action: run(false)},
		},
	}
}

// SeedCommand loads users into the configured directory.
func SeedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Upsert users from a YAML file, or the demo roster when no file is given",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "YAML file with a top-level users list"},
		},
		Action: func(ctx *cli.Context) error {
			log := getLogger(ctx)
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			users := directory.DemoUsers()
			if path := ctx.String("file"); path != "" {
				if users, err = directory.LoadSeedFile(path); err != nil {
					return err
				}
			}

			cfg.Directory.SeedDemo = false
			dir, err := openDirectory(ctx.Context, cfg, log)
			if err != nil {
				return err
			}
			defer dir.Close()

			n, err := directory.Seed(ctx.Context, dir, users)
			if err != nil {
				return err
			}
			log.Info("Seeded directory", logger.IntField("users", n), logger.StringField("driver", cfg.Directory.Driver))
			fmt.Fprintf(ctx.App.Writer, "Seeded %d users\n", n)
			return nil
		},
	}
}
