package cli

import (
	"encoding/json"
	"errors"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/teambuilder_concierge/internal/concierge"
	"github.com/lewisedginton/teambuilder_concierge/internal/tools"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// withApp opens the directory and wires a lenient app for one-shot commands.
func withApp(ctx *cli.Context, fn func(a *app) error) error {
	log := getLogger(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	dir, err := openDirectory(ctx.Context, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := dir.Close(); err != nil {
			log.Warn("Failed to close directory", logger.ErrorField(err))
		}
	}()

	a, err := buildApp(ctx.Context, cfg, dir, log, nil, false)
	if err != nil {
		return err
	}
	return fn(a)
}

// ChatCommand runs one message through the pipeline and prints the response.
func ChatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Send one message to the concierge and print the JSON response",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "message", Aliases: []string{"m"}, Usage: "Message text", Required: true},
			&cli.StringFlag{Name: "context", Usage: "Earlier conversation to pass along"},
		},
		Action: func(ctx *cli.Context) error {
			return withApp(ctx, func(a *app) error {
				resp := a.orchestrator.Chat(ctx.Context, concierge.ChatRequest{
					Message: ctx.String("message"),
					Context: ctx.String("context"),
				})
				return printJSON(ctx, resp)
			})
		},
	}
}

// ToolCommand invokes a tool directly with strictly validated arguments.
func ToolCommand() *cli.Command {
	sub := func(name, alias string, tool tools.Name, usage string) *cli.Command {
		return &cli.Command{
			Name:    name,
			Aliases: []string{alias},
			Usage:   usage,
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "args", Aliases: []string{"a"}, Value: "{}", Usage: "Tool arguments as a JSON object"},
			},
			Action: func(ctx *cli.Context) error {
				return withApp(ctx, func(a *app) error {
					return invokeTool(ctx, a, tool)
				})
			},
		}
	}

	return &cli.Command{
		Name:  "tool",
		Usage: "Invoke a concierge tool directly",
		Subcommands: []*cli.Command{
			sub("search", "search-candidates", tools.SearchCandidates, "Search the directory for candidates"),
			sub("draft", "draft-message", tools.DraftMessage, "Draft a team introduction message"),
		},
	}
}

func invokeTool(ctx *cli.Context, a *app, tool tools.Name) error {
	result, err := a.orchestrator.InvokeTool(ctx.Context, string(tool), json.RawMessage(ctx.String("args")))

	var verr *tools.ValidationError
	switch {
	case err == nil:
		return printJSON(ctx, map[string]any{"result": result})
	case errors.As(err, &verr):
		if perr := printJSON(ctx, map[string]any{"error": "Invalid input for " + string(verr.Tool), "details": verr.Details}); perr != nil {
			return perr
		}
		return cli.Exit("invalid tool input", 2)
	default:
		return err
	}
}
