package scene

import (
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/broadcast"
	"spot-the-spy-bot/internal/config"
	"spot-the-spy-bot/internal/keyboard"
	"spot-the-spy-bot/internal/locale"
	"spot-the-spy-bot/internal/model"
	"spot-the-spy-bot/internal/pkg/lock"
	"spot-the-spy-bot/internal/session"
)

// Deps wires the manager's collaborators.
type Deps struct {
	Config   *config.Config
	Store    *session.Store
	Registry *session.Registry
	Engine   Broadcaster
	Games    GamesAPI
	Single   SingleGamesAPI
	Users    UsersAPI
	Locks    *lock.UserLock
}

// Manager dispatches user actions against the scene table and keeps the
// persisted session in step with what the user sees.
type Manager struct {
	cfg      *config.Config
	store    *session.Store
	registry *session.Registry
	engine   Broadcaster
	games    GamesAPI
	single   SingleGamesAPI
	users    UsersAPI
	locks    *lock.UserLock
	table    map[Scene]map[string]handlerFunc
}

// NewManager creates a Manager with the full transition table installed.
func NewManager(d Deps) *Manager {
	return &Manager{
		cfg:      d.Config,
		store:    d.Store,
		registry: d.Registry,
		engine:   d.Engine,
		games:    d.Games,
		single:   d.Single,
		users:    d.Users,
		locks:    d.Locks,
		table:    transitions(),
	}
}

// HandleAction runs the handler registered for the user's current scene and
// the given action. Events for the same user are serialized: the game
// teardown on exit must not race with a second tap on the same button.
func (m *Manager) HandleAction(ev *Event, action string) error {
	return m.locks.WithLock(ev.User.ID, func() error {
		handlers, ok := m.table[Scene(ev.User.Scene)]
		if !ok {
			// Stale or unknown stored scene, e.g. after an upgrade.
			log.Warn().Str("scene", ev.User.Scene).Int64("telegram_id", ev.User.TelegramID).
				Msg("Unknown scene, resetting to menu")
			return m.jumpTo(ev, SceneStart)
		}
		h, ok := handlers[action]
		if !ok {
			return nil
		}
		return h(m, ev)
	})
}

// HandleStart processes /start: a deep-link payload joins a multi-device
// game, anything else lands the user on the root menu in a fresh message.
// Restarting out of a play scene runs that scene's leave flow first, so
// membership never outlives the screen it is controlled from.
func (m *Manager) HandleStart(ev *Event) error {
	return m.locks.WithLock(ev.User.ID, func() error {
		if ev.Payload != "" {
			gameID, err := model.DecodeJoinPayload(ev.Payload)
			if err == nil {
				if Scene(ev.User.Scene) == SceneSinglePlay {
					if serr := m.endSingleGame(ev); serr != nil {
						return serr
					}
				}
				return m.joinGame(ev, gameID)
			}
			log.Warn().Err(err).Int64("telegram_id", ev.User.TelegramID).
				Msg("Ignoring malformed start payload")
		}

		if err := m.exitPlay(ev); err != nil {
			return err
		}

		ev.User.Scene = string(SceneStart)
		ev.User.SceneStack = nil
		return m.showFresh(ev, m.startView(m.loc(ev.User)))
	})
}

// exitPlay tears down whatever game the user's current scene controls.
func (m *Manager) exitPlay(ev *Event) error {
	switch Scene(ev.User.Scene) {
	case SceneMultiPlay:
		_, err := m.leaveGame(ev)
		return err
	case SceneSinglePlay:
		return m.endSingleGame(ev)
	}
	return nil
}

func (m *Manager) loc(u *model.BotUser) locale.Locale {
	return locale.Parse(u.Locale)
}

func (m *Manager) binding(u *model.BotUser) session.Binding {
	return session.Binding{
		ChatID:     u.ChatID,
		MessageID:  u.MessageID,
		HasPhoto:   u.HasPhoto,
		TelegramID: u.TelegramID,
		FirstName:  u.FirstName,
		Locale:     u.Locale,
	}
}

// show edits the user's current message in place and persists the session.
func (m *Manager) show(ev *Event, v broadcast.View) error {
	b, err := m.engine.Refresh(m.binding(ev.User), v)
	if err != nil {
		return err
	}
	ev.User.MessageID = b.MessageID
	ev.User.HasPhoto = b.HasPhoto
	return m.store.Set(ev.Ctx, ev.User)
}

// showFresh sends a new message, retiring the previous one, and persists the
// session.
func (m *Manager) showFresh(ev *Event, v broadcast.View) error {
	b, err := m.engine.Fresh(m.binding(ev.User), v)
	if err != nil {
		return err
	}
	ev.User.MessageID = b.MessageID
	ev.User.HasPhoto = b.HasPhoto
	return m.store.Set(ev.Ctx, ev.User)
}

// goTo pushes the current scene and renders the target.
func (m *Manager) goTo(ev *Event, sc Scene) error {
	ev.User.SceneStack = append(ev.User.SceneStack, ev.User.Scene)
	ev.User.Scene = string(sc)
	return m.render(ev, sc)
}

// backTo pops the scene stack and renders the previous scene. At the root
// there is nothing to pop; the menu is re-rendered.
func (m *Manager) backTo(ev *Event) error {
	sc := SceneStart
	if n := len(ev.User.SceneStack); n > 0 {
		sc = Scene(ev.User.SceneStack[n-1])
		ev.User.SceneStack = ev.User.SceneStack[:n-1]
	}
	ev.User.Scene = string(sc)
	return m.render(ev, sc)
}

// jumpTo clears the stack and renders the target; used for the menu shortcut.
func (m *Manager) jumpTo(ev *Event, sc Scene) error {
	ev.User.SceneStack = nil
	ev.User.Scene = string(sc)
	return m.render(ev, sc)
}

func (m *Manager) startView(loc locale.Locale) broadcast.View {
	return textView(loc, "message.start", keyboard.Start(loc))
}

// render draws a scene's static view. Scenes whose content depends on game
// state (play scenes) are entered through their flow handlers and only ever
// re-rendered here on configuration screens.
func (m *Manager) render(ev *Event, sc Scene) error {
	loc := m.loc(ev.User)
	game := m.cfg.Game

	var v broadcast.View
	switch sc {
	case SceneStart:
		v = m.startView(loc)
	case SceneLanguage:
		v = textView(loc, "message.language.choose", keyboard.Language(loc))
	case SceneChooseDevice:
		v = textView(loc, "message.choose_device", keyboard.ChooseDevice(loc))
	case SceneSingleExplain:
		v = textView(loc, "message.single.explain", keyboard.Explain(loc))
	case SceneSingleConfigure:
		v = textView(loc, "message.single.configure",
			keyboard.Configure(loc, game.MinPlayers, game.MaxPlayers,
				m.playerAmount(ev.User), "button.start", keyboard.ActStart))
	case SceneMultiExplain:
		v = textView(loc, "message.multi.explain", keyboard.Explain(loc))
	case SceneMultiConfigure:
		v = textView(loc, "message.multi.configure",
			keyboard.Configure(loc, game.MinPlayers, game.MaxPlayers,
				m.playerAmount(ev.User), "button.create", keyboard.ActCreate))
	default:
		v = m.startView(loc)
	}
	return m.show(ev, v)
}

// playerAmount returns the user's configured amount clamped to the allowed
// range, falling back to the default.
func (m *Manager) playerAmount(u *model.BotUser) int {
	g := m.cfg.Game
	if u.PlayerAmount < g.MinPlayers || u.PlayerAmount > g.MaxPlayers {
		return g.DefaultPlayers
	}
	return u.PlayerAmount
}

// textView renders a static catalog message with entity markers resolved.
func textView(loc locale.Locale, key string, markup *tele.ReplyMarkup) broadcast.View {
	text, entities := broadcast.ExtractEntities(loc.Text(key), "", nil)
	return broadcast.View{Text: text, Entities: entities, Markup: markup}
}

// textfView is textView with catalog placeholders filled in.
func textfView(loc locale.Locale, key string, markup *tele.ReplyMarkup, args ...any) broadcast.View {
	text, entities := broadcast.ExtractEntities(loc.Textf(key, args...), "", nil)
	return broadcast.View{Text: text, Entities: entities, Markup: markup}
}

func nop(*Manager, *Event) error { return nil }

func back(m *Manager, ev *Event) error { return m.backTo(ev) }

func toMenu(m *Manager, ev *Event) error { return m.jumpTo(ev, SceneStart) }

func toLanguage(m *Manager, ev *Event) error { return m.goTo(ev, SceneLanguage) }

func toChooseDevice(m *Manager, ev *Event) error { return m.goTo(ev, SceneChooseDevice) }

func toSingleExplain(m *Manager, ev *Event) error { return m.goTo(ev, SceneSingleExplain) }

func toSingleConfigure(m *Manager, ev *Event) error { return m.goTo(ev, SceneSingleConfigure) }

func toMultiExplain(m *Manager, ev *Event) error { return m.goTo(ev, SceneMultiExplain) }

func toMultiConfigure(m *Manager, ev *Event) error { return m.goTo(ev, SceneMultiConfigure) }

// chooseLanguage switches the user's locale, pushes the change to the game
// service, and re-renders the language menu in the new language.
func chooseLanguage(m *Manager, ev *Event) error {
	chosen := locale.Parse(ev.Arg)
	if string(chosen) == ev.User.Locale {
		ev.respond(chosen.Text("answer.language.same"))
		return nil
	}

	if _, err := m.users.Update(ev.Ctx, ev.User.ID, apiclient.UpdateUser{
		Locale: string(chosen),
	}); err != nil {
		return err
	}

	ev.User.Locale = string(chosen)
	return m.render(ev, SceneLanguage)
}
