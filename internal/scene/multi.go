package scene

import (
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/broadcast"
	"spot-the-spy-bot/internal/keyboard"
)

func multiChoosePlayers(m *Manager, ev *Event) error {
	n, err := strconv.Atoi(ev.Arg)
	if err != nil {
		return nil
	}
	g := m.cfg.Game
	if n < g.MinPlayers || n > g.MaxPlayers || n == m.playerAmount(ev.User) {
		return nil
	}
	ev.User.PlayerAmount = n
	return m.render(ev, SceneMultiConfigure)
}

// multiCreate opens a lobby, binds the host and pushes the first lobby
// message. The QR code is generated after the lobby is already visible; the
// extra broadcast swaps it in once the service has rendered it.
func multiCreate(m *Manager, ev *Event) error {
	game, err := m.games.Create(ev.Ctx, ev.User.ID, m.playerAmount(ev.User))
	if errors.Is(err, apiclient.ErrAlreadyInGame) {
		// A previous session left a game behind; resume it instead of failing.
		game, err = m.games.GetByUser(ev.Ctx, ev.User.ID)
	}
	if err != nil {
		return err
	}

	ev.User.SceneStack = append(ev.User.SceneStack, ev.User.Scene)
	ev.User.Scene = string(SceneMultiPlay)
	if err := m.store.Set(ev.Ctx, ev.User); err != nil {
		return err
	}

	m.registry.Bind(game.GameID, ev.User.ID, m.binding(ev.User))
	m.engine.BroadcastRecruitment(game)
	m.engine.StartPoller(game.GameID)

	m.pushQRCode(ev, game.GameID)
	return nil
}

func (m *Manager) pushQRCode(ev *Event, gameID uuid.UUID) {
	game, err := m.games.GenerateQRCode(ev.Ctx, gameID)
	if err != nil {
		if !errors.Is(err, apiclient.ErrAlreadyExists) {
			log.Warn().Err(err).Str("game_id", gameID.String()).
				Msg("QR code generation failed, lobby keeps the placeholder")
		}
		return
	}
	m.engine.BroadcastRecruitment(game)
}

// joinGame handles a deep-link join. Failures are reported to the newcomer
// alone; nobody else's lobby is touched.
func (m *Manager) joinGame(ev *Event, gameID uuid.UUID) error {
	loc := m.loc(ev.User)

	game, err := m.games.Join(ev.Ctx, gameID, ev.User.ID)
	if errors.Is(err, apiclient.ErrAlreadyInGame) {
		current, gerr := m.games.GetByUser(ev.Ctx, ev.User.ID)
		switch {
		case gerr == nil && current.GameID == gameID:
			// The lobby's own link; the screen already shows the game.
			return nil
		case gerr == nil:
			// Switching lobbies: release the old membership first, including
			// the host teardown when the user hosts the old game.
			if _, lerr := m.leaveGame(ev); lerr != nil {
				return lerr
			}
			game, err = m.games.Join(ev.Ctx, gameID, ev.User.ID)
		case errors.Is(gerr, apiclient.ErrNotFound):
			// The membership vanished between the two calls.
			game, err = m.games.Join(ev.Ctx, gameID, ev.User.ID)
		default:
			return gerr
		}
	}
	if err != nil {
		var key string
		switch {
		case errors.Is(err, apiclient.ErrNotFound):
			key = "message.join.not_found"
		case errors.Is(err, apiclient.ErrGameAlreadyStarted):
			key = "message.join.already_started"
		case errors.Is(err, apiclient.ErrAlreadyInGame):
			key = "message.join.already_in_game"
		case errors.Is(err, apiclient.ErrInvalidPlayerAmount):
			key = "message.join.full"
		default:
			return err
		}

		ev.User.Scene = string(SceneStart)
		ev.User.SceneStack = nil
		return m.showFresh(ev, broadcast.View{
			Text:   loc.Text(key),
			Markup: keyboard.Menu(loc),
		})
	}

	// The join broadcast sends the newcomer a fresh lobby message, replacing
	// whatever screen they had before.
	ev.User.Scene = string(SceneMultiPlay)
	ev.User.SceneStack = []string{string(SceneStart)}
	if err := m.store.Set(ev.Ctx, ev.User); err != nil {
		return err
	}

	m.registry.Bind(game.GameID, ev.User.ID, m.binding(ev.User))
	m.engine.BroadcastJoin(game, ev.User.ID)
	m.engine.StartPoller(game.GameID)
	return nil
}

func multiStart(m *Manager, ev *Event) error {
	game, err := m.games.GetByUser(ev.Ctx, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return m.backTo(ev)
		}
		return err
	}
	if !game.IsHost(ev.User.ID) {
		return nil
	}

	started, err := m.games.Start(ev.Ctx, game.GameID)
	if err != nil {
		switch {
		case errors.Is(err, apiclient.ErrInvalidPlayerAmount):
			ev.respond(m.loc(ev.User).Text("answer.too_few_players"))
			return nil
		case errors.Is(err, apiclient.ErrGameAlreadyStarted):
			return nil
		}
		return err
	}

	m.engine.BroadcastRoles(started)
	return nil
}

func multiFinish(m *Manager, ev *Event) error {
	game, err := m.games.GetByUser(ev.Ctx, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return m.backTo(ev)
		}
		return err
	}
	if !game.IsHost(ev.User.ID) || !game.HasStarted {
		return nil
	}

	m.engine.BroadcastFinish(game)
	return nil
}

// multiPlayAgain restarts a finished game under the service's fresh id while
// keeping the roster. Existing bindings carry over so every player's message
// flips back to the new lobby.
func multiPlayAgain(m *Manager, ev *Event) error {
	game, err := m.games.GetByUser(ev.Ctx, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return m.backTo(ev)
		}
		return err
	}
	if !game.IsHost(ev.User.ID) {
		return nil
	}

	fresh, err := m.games.Restart(ev.Ctx, game.GameID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return m.backTo(ev)
		}
		return err
	}

	if fresh.GameID != game.GameID {
		m.engine.RebindAll(game.GameID, fresh.GameID)
	}
	m.engine.BroadcastRecruitment(fresh)
	m.engine.StartPoller(fresh.GameID)

	m.pushQRCode(ev, fresh.GameID)
	return nil
}

// multiExit serves both the leave button and the menu shortcut. The whole
// handler runs under the user's lock, and a game the user is no longer in is
// treated as already handled, so a double tap tears the game down once.
func multiExit(m *Manager, ev *Event) error {
	left, err := m.leaveGame(ev)
	if err != nil {
		return err
	}

	ev.User.Scene = string(SceneStart)
	ev.User.SceneStack = nil
	if left {
		return m.show(ev, broadcast.LeftView(m.loc(ev.User)))
	}
	return m.render(ev, SceneStart)
}

func multiExitToMenu(m *Manager, ev *Event) error {
	return multiExit(m, ev)
}

// leaveGame removes the caller from their current game. The host stopping
// the game ends it for everyone; an ordinary player's departure just updates
// the remaining lobbies. Reports whether there was anything to leave.
func (m *Manager) leaveGame(ev *Event) (bool, error) {
	game, err := m.games.GetByUser(ev.Ctx, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if game.IsHost(ev.User.ID) {
		if err := m.games.Remove(ev.Ctx, game.GameID); err != nil {
			return false, err
		}
		m.engine.BroadcastStopped(game.GameID, ev.User.ID)
		m.engine.Forget(game.GameID)
		return true, nil
	}

	remaining, err := m.games.Leave(ev.Ctx, game.GameID, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotInGame) || errors.Is(err, apiclient.ErrNotFound) {
			m.registry.Unbind(game.GameID, ev.User.ID)
			return false, nil
		}
		return false, err
	}

	m.registry.Unbind(game.GameID, ev.User.ID)
	if !remaining.HasStarted {
		m.engine.BroadcastRecruitment(remaining)
	}
	return true, nil
}
