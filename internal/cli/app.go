// Package cli implements the concierge command line: the long-running
// server plus one-shot commands for chatting, invoking tools and managing
// the user directory.
package cli

import (
	"strings"

	"github.com/urfave/cli/v2"

	appconfig "github.com/lewisedginton/teambuilder_concierge/internal/config"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// NewApp assembles every command. Logs go to App.ErrWriter so JSON output
// on App.Writer stays clean.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "concierge",
		Usage:   "Hackathon team-building AI concierge",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "config-file",
				Usage:   "Path to an optional YAML configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
		},
		Before: func(ctx *cli.Context) error {
			log := logger.NewLogger(logger.Config{
				Level:   logger.ParseLevel(ctx.String("log-level")),
				Format:  strings.ToLower(ctx.String("log-format")),
				Service: appconfig.ServiceName,
				Output:  ctx.App.ErrWriter,
			})
			ctx.App.Metadata = map[string]any{loggerKey: log}
			return nil
		},
		Commands: []*cli.Command{
			ServeCommand(),
			ChatCommand(),
			ToolCommand(),
			MigrateCommand(),
			SeedCommand(),
			ConfigCommand(),
		},
	}
}
