// Package bot wires telebot to the scene manager and the broadcast engine.
package bot

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/locale"
	"spot-the-spy-bot/internal/model"
	"spot-the-spy-bot/internal/session"
)

// sessionKey is the telebot context key the resolved session is stored under.
const sessionKey = "bot_user"

// LoggingMiddleware creates a middleware that logs all incoming updates.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug()
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received update")

			return next(c)
		}
	}
}

// RecoveryMiddleware creates a middleware that recovers from handler panics.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Msg("Recovered from panic in handler")
				}
			}()
			return next(c)
		}
	}
}

// PrivateOnlyMiddleware drops everything that does not come from a private
// chat. The game is played one-on-one with the bot; group noise is ignored.
func PrivateOnlyMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			chat := c.Chat()
			if chat == nil || chat.Type != tele.ChatPrivate {
				return nil
			}
			return next(c)
		}
	}
}

// SessionMiddleware resolves the sender's persisted session, registering the
// user with the game service on first contact, and stores it on the telebot
// context for the handlers.
func SessionMiddleware(store *session.Store, users *apiclient.Users) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil || sender.IsBot {
				return nil
			}

			ctx := context.Background()
			u, err := store.GetByTelegramID(ctx, sender.ID)
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				u, err = registerUser(ctx, store, users, sender)
				if err != nil {
					return err
				}
			case err != nil:
				return err
			}

			c.Set(sessionKey, u)
			return next(c)
		}
	}
}

// registerUser creates (or fetches) the game service user for a Telegram
// account and seeds a fresh session for it.
func registerUser(ctx context.Context, store *session.Store, users *apiclient.Users, sender *tele.User) (*model.BotUser, error) {
	remote, err := users.GetOrCreate(ctx, apiclient.CreateUser{
		TelegramID: sender.ID,
		FirstName:  sender.FirstName,
		Username:   sender.Username,
		Locale:     string(locale.Parse(sender.LanguageCode)),
	})
	if err != nil {
		return nil, err
	}

	u := &model.BotUser{User: *remote}
	if u.Locale == "" {
		u.Locale = string(locale.Parse(sender.LanguageCode))
	}
	if err := store.Set(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// sessionUser pulls the session resolved by SessionMiddleware off the
// context.
func sessionUser(c tele.Context) (*model.BotUser, bool) {
	u, ok := c.Get(sessionKey).(*model.BotUser)
	return u, ok && u != nil
}
