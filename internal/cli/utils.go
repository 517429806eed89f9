package cli

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	appconfig "github.com/lewisedginton/teambuilder_concierge/internal/config"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

const loggerKey = "logger"

// getLogger retrieves the logger from the CLI context metadata
func getLogger(ctx *cli.Context) logger.Logger {
	if ctx.App.Metadata != nil {
		if log, ok := ctx.App.Metadata[loggerKey].(logger.Logger); ok {
			return log
		}
	}
	return logger.NewLogger(logger.Config{
		Level:   logger.InfoLevel,
		Format:  "json",
		Service: appconfig.ServiceName,
	})
}

// loadConfig reads the optional --config-file plus the environment.
func loadConfig(ctx *cli.Context) (*appconfig.AppConfig, error) {
	cfg, err := appconfig.Load(ctx.String("config-file"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

func printJSON(ctx *cli.Context, v any) error {
	enc := json.NewEncoder(ctx.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
