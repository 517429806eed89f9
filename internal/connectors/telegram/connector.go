// Package telegram lets Telegram users talk to the concierge.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/lewisedginton/teambuilder_concierge/internal/concierge"
	"github.com/lewisedginton/teambuilder_concierge/pkg/logger"
)

// maxMessageLength is Telegram's limit for one text message.
const maxMessageLength = 4096

// ErrNotPolling is reported by Ready before Start or after it returns.
var ErrNotPolling = errors.New("telegram connector is not polling")

// Chatter is the part of the orchestrator the connector needs.
type Chatter interface {
	Chat(ctx context.Context, req concierge.ChatRequest) concierge.ChatResponse
}

// Sender delivers replies. *bot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Config holds configuration for the Telegram connector
type Config struct {
	BotToken string
	Debug    bool
	Logger   logger.Logger
	// HistoryTurns bounds how many earlier exchanges are passed as context.
	HistoryTurns int
	// HistoryChats bounds how many chats keep history at once.
	HistoryChats int
}

// poller is the long-polling side of *bot.Bot.
type poller interface {
	Start(ctx context.Context)
	GetMe(ctx context.Context) (*models.User, error)
}

// Connector represents the Telegram connector
type Connector struct {
	bot      poller
	sender   Sender
	chat     Chatter
	log      logger.Logger
	history  *history
	commands *CommandRegistry
	polling  atomic.Bool
	username atomic.Value
}

// NewConnector creates the bot client. The token is checked against the
// Telegram API.
func NewConnector(cfg Config, chat Chatter) (*Connector, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chat == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}

	c := newConnector(cfg, chat, nil)

	opts := []bot.Option{bot.WithDefaultHandler(c.handleUpdate)}
	if cfg.Debug {
		opts = append(opts, bot.WithDebug())
	}
	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	c.bot = b
	c.sender = b
	c.log.Info("Telegram bot initialized")
	return c, nil
}

func newConnector(cfg Config, chat Chatter, sender Sender) *Connector {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	if cfg.HistoryTurns <= 0 {
		cfg.HistoryTurns = 3
	}
	c := &Connector{
		sender:  sender,
		chat:    chat,
		log:     cfg.Logger.WithFields(logger.StringField("connector", "telegram")),
		history: newHistory(cfg.HistoryTurns, cfg.HistoryChats),
	}
	c.setupCommands()
	return c
}

func (c *Connector) Name() string { return "telegram" }

// Start resolves the bot identity, then polls for updates until ctx is
// cancelled.
func (c *Connector) Start(ctx context.Context) error {
	me, err := c.GetBotInfo(ctx)
	if err != nil {
		return err
	}
	c.username.Store(me.Username)

	c.polling.Store(true)
	defer c.polling.Store(false)

	c.log.Info("Starting Telegram bot polling",
		logger.StringField("bot_username", me.Username),
		logger.Field("bot_id", me.ID))
	c.bot.Start(ctx)
	return nil
}

// Username is the bot's handle once Start has resolved it.
func (c *Connector) Username() string {
	name, _ := c.username.Load().(string)
	return name
}

// Ready is the health probe.
func (c *Connector) Ready() error {
	if !c.polling.Load() {
		return ErrNotPolling
	}
	return nil
}

// GetBotInfo asks Telegram who the bot is.
func (c *Connector) GetBotInfo(ctx context.Context) (*models.User, error) {
	if c.bot == nil {
		return nil, ErrNotPolling
	}
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("get bot info: %w", err)
	}
	return me, nil
}

func (c *Connector) handleUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	c.process(ctx, update)
}

func (c *Connector) process(ctx context.Context, update *models.Update) {
	msg := update.Message
	if msg == nil || strings.TrimSpace(msg.Text) == "" {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}

	ctx, _ = logger.EnsureCorrelationID(ctx)
	log := logger.FromContext(ctx, c.log).WithFields(
		logger.StringField("chat_id", strconv.FormatInt(msg.Chat.ID, 10)))

	var reply string
	if c.commands.IsCommand(msg.Text) {
		log.Debug("Processing command", logger.StringField("command", msg.Text))
		reply = c.commands.Handle(ctx, msg)
	} else {
		reply = c.converse(ctx, msg.Chat.ID, msg.Text)
	}

	for _, part := range split(reply, maxMessageLength) {
		if _, err := c.sender.SendMessage(ctx, &bot.SendMessageParams{ChatID: msg.Chat.ID, Text: part}); err != nil {
			log.Error("Error sending message to Telegram", logger.ErrorField(err))
			return
		}
	}
}

func (c *Connector) converse(ctx context.Context, chatID int64, text string) string {
	resp := c.chat.Chat(ctx, concierge.ChatRequest{
		Message: text,
		Context: c.history.render(chatID),
	})
	c.history.add(chatID, text, resp.ReplyText)
	return resp.ReplyText
}

// split cuts s into chunks of at most n bytes without breaking runes.
func split(s string, n int) []string {
	var parts []string
	for len(s) > n {
		cut := n
		for cut > 0 && !isRuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			cut = n
		}
		parts = append(parts, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
