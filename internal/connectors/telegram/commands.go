package telegram

import (
	"context"
	"strings"

	"github.com/go-telegram/bot/models"
)

const helpText = `I help you find hackathon teammates.

Try:
- "Find me React and Node.js developers who are available"
- "Anyone from BIT Mesra in 3rd year who knows Python?"
- "Write an intro for my team: Priya (Figma), Arjun (Go) building a budgeting app"

Commands:
/help - show this message
/reset - forget this chat's earlier messages`

// CommandHandler answers one slash command.
type CommandHandler func(ctx context.Context, msg *models.Message) (string, error)

// CommandRegistry manages bot command handlers
type CommandRegistry struct {
	handlers map[string]CommandHandler
}

func NewCommandRegistry() *CommandRegistry {
	return &CommandRegistry{handlers: make(map[string]CommandHandler)}
}

func (r *CommandRegistry) Register(command string, handler CommandHandler) {
	r.handlers[command] = handler
}

func (r *CommandRegistry) IsCommand(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "/")
}

// Handle runs the command in msg. "/help@my_bot" is treated as "/help".
func (r *CommandRegistry) Handle(ctx context.Context, msg *models.Message) string {
	fields := strings.Fields(msg.Text)
	if len(fields) == 0 {
		return ""
	}
	command, _, _ := strings.Cut(fields[0], "@")

	handler, ok := r.handlers[strings.ToLower(command)]
	if !ok {
		return "Unknown command: " + command + "\n\n" + helpText
	}
	reply, err := handler(ctx, msg)
	if err != nil {
		return "An error occurred while processing your command."
	}
	return reply
}

func (c *Connector) setupCommands() {
	c.commands = NewCommandRegistry()
	c.commands.Register("/start", func(context.Context, *models.Message) (string, error) {
		return "Hi! I'm the TeamBuilder concierge.\n\n" + helpText, nil
	})
	c.commands.Register("/help", func(context.Context, *models.Message) (string, error) {
		return helpText, nil
	})
	c.commands.Register("/reset", func(_ context.Context, msg *models.Message) (string, error) {
		c.history.reset(msg.Chat.ID)
		return "Done, starting fresh.", nil
	})
}
