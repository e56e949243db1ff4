package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/config"
	"spot-the-spy-bot/internal/keyboard"
	"spot-the-spy-bot/internal/locale"
	"spot-the-spy-bot/internal/model"
	"spot-the-spy-bot/internal/scene"
	"spot-the-spy-bot/internal/session"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot     *tele.Bot
	cfg     *config.Config
	manager *scene.Manager
	store   *session.Store
	users   *apiclient.Users
}

// Dependencies holds everything the bot handlers need.
type Dependencies struct {
	Config  *config.Config
	Bot     *tele.Bot
	Manager *scene.Manager
	Store   *session.Store
	Users   *apiclient.Users
}

// NewConn creates the telebot instance for the configured launch mode. It is
// separate from New so the broadcast engine can be built around the same
// connection before the handlers are registered.
func NewConn(cfg *config.Config) (*tele.Bot, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  cfg.Bot.Token,
		Poller: poller(cfg),
		OnError: func(err error, c tele.Context) {
			log.Error().Err(err).Msg("Handler failed")
		},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return teleBot, nil
}

func poller(cfg *config.Config) tele.Poller {
	if cfg.Bot.Mode == config.ModeWebhook {
		return &tele.Webhook{
			Listen:      cfg.Bot.Listen,
			SecretToken: cfg.Bot.Secret,
			Endpoint:    &tele.WebhookEndpoint{PublicURL: cfg.Bot.WebhookURL},
		}
	}
	return &tele.LongPoller{Timeout: 10 * time.Second}
}

// New wires the handlers and middleware onto an existing connection.
func New(deps *Dependencies) *Bot {
	b := &Bot{
		bot:     deps.Bot,
		cfg:     deps.Config,
		manager: deps.Manager,
		store:   deps.Store,
		users:   deps.Users,
	}

	b.registerMiddleware()
	b.registerHandlers()
	return b
}

func (b *Bot) registerMiddleware() {
	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(PrivateOnlyMiddleware())
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(SessionMiddleware(b.store, b.users))
}

func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle(tele.OnCallback, b.handleCallback)
	b.bot.Handle(tele.OnText, b.handleText)
}

// handleStart opens the root menu, or joins a game when the command carries
// a deep-link payload.
func (b *Bot) handleStart(c tele.Context) error {
	u, ok := sessionUser(c)
	if !ok {
		return nil
	}

	ev := &scene.Event{Ctx: context.Background(), User: u}
	if msg := c.Message(); msg != nil {
		u.ChatID = msg.Chat.ID
		ev.Payload = msg.Payload
		// The command itself is clutter; the whole flow lives in one
		// bot-owned message.
		_ = c.Delete()
	}

	return b.manager.HandleStart(ev)
}

// handleCallback dispatches a button press to the scene manager. The session
// is synced to the message the button actually lives on, so a drifted store
// never sends an edit to a stale message.
func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	u, ok := sessionUser(c)
	if !ok {
		return nil
	}

	if cb.Message != nil {
		u.ChatID = cb.Message.Chat.ID
		u.MessageID = cb.Message.ID
		u.HasPhoto = cb.Message.Photo != nil
	}

	action, arg := keyboard.ParseCallback(cb.Data)

	responded := false
	ev := &scene.Event{
		Ctx:  context.Background(),
		User: u,
		Arg:  arg,
		Respond: func(text string) error {
			responded = true
			return c.Respond(&tele.CallbackResponse{Text: text})
		},
	}

	if err := b.manager.HandleAction(ev, action); err != nil {
		log.Error().Err(err).
			Int64("telegram_id", u.TelegramID).
			Str("action", action).
			Msg("Action failed")
		return c.Respond(&tele.CallbackResponse{
			Text: b.userLocale(u).Text("message.error"),
		})
	}

	if !responded {
		return c.Respond()
	}
	return nil
}

// handleText deletes stray user messages; the bot's UI is button-driven.
func (b *Bot) handleText(c tele.Context) error {
	return c.Delete()
}

func (b *Bot) userLocale(u *model.BotUser) locale.Locale {
	return locale.Parse(u.Locale)
}

// Start starts receiving updates. Blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Str("mode", b.cfg.Bot.Mode).Msg("Starting bot")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot")
	b.bot.Stop()
}
