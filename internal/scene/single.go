package scene

import (
	"errors"
	"strconv"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/keyboard"
	"spot-the-spy-bot/internal/model"
)

func singleChoosePlayers(m *Manager, ev *Event) error {
	n, err := strconv.Atoi(ev.Arg)
	if err != nil {
		return nil
	}
	g := m.cfg.Game
	if n < g.MinPlayers || n > g.MaxPlayers || n == m.playerAmount(ev.User) {
		return nil
	}
	ev.User.PlayerAmount = n
	return m.render(ev, SceneSingleConfigure)
}

func singleStart(m *Manager, ev *Event) error {
	amount := m.playerAmount(ev.User)

	game, err := m.single.Create(ev.Ctx, ev.User.ID, ev.User.TelegramID, amount)
	if errors.Is(err, apiclient.ErrAlreadyInGame) {
		// A leftover game from a crashed session; replace it.
		if old, gerr := m.single.GetByUser(ev.Ctx, ev.User.ID); gerr == nil {
			if rerr := m.single.Remove(ev.Ctx, old.GameID); rerr != nil {
				return rerr
			}
		}
		game, err = m.single.Create(ev.Ctx, ev.User.ID, ev.User.TelegramID, amount)
	}
	if err != nil {
		return err
	}

	ev.User.SceneStack = append(ev.User.SceneStack, ev.User.Scene)
	ev.User.Scene = string(SceneSinglePlay)
	ev.User.PlayerIndex = 1
	return m.showPrepare(ev, game)
}

// showPrepare asks for the device to be handed to the current seat.
func (m *Manager) showPrepare(ev *Event, game *model.SingleDeviceGame) error {
	loc := m.loc(ev.User)
	return m.show(ev, textfView(loc, "message.single.prepare",
		keyboard.SinglePrepare(loc), ev.User.PlayerIndex, game.PlayerAmount))
}

// singleViewRole reveals the current seat's role. Seats are one-based; the
// service reports the spy as a zero-based index.
func singleViewRole(m *Manager, ev *Event) error {
	game, err := m.currentSingleGame(ev)
	if err != nil || game == nil {
		return err
	}

	loc := m.loc(ev.User)
	if ev.User.PlayerIndex-1 == game.SpyIndex {
		return m.show(ev, textView(loc, "message.single.role.spy", keyboard.SingleRole(loc)))
	}
	return m.show(ev, textfView(loc, "message.single.role.citizen",
		keyboard.SingleRole(loc), loc.SecretWord(game.SecretWord)))
}

func singleProceed(m *Manager, ev *Event) error {
	game, err := m.currentSingleGame(ev)
	if err != nil || game == nil {
		return err
	}

	ev.User.PlayerIndex++
	if ev.User.PlayerIndex > game.PlayerAmount {
		loc := m.loc(ev.User)
		return m.show(ev, textView(loc, "message.single.discuss", keyboard.SingleDiscuss(loc)))
	}
	return m.showPrepare(ev, game)
}

func singleFinish(m *Manager, ev *Event) error {
	game, err := m.currentSingleGame(ev)
	if err != nil || game == nil {
		return err
	}

	loc := m.loc(ev.User)
	return m.show(ev, textfView(loc, "message.single.finish",
		keyboard.SingleFinished(loc), loc.SecretWord(game.SecretWord), game.SpyIndex+1))
}

// singlePlayAgain rolls a new game with the same player amount; the service
// picks a fresh word and spy seat.
func singlePlayAgain(m *Manager, ev *Event) error {
	if err := m.endSingleGame(ev); err != nil {
		return err
	}

	game, err := m.single.Create(ev.Ctx, ev.User.ID, ev.User.TelegramID, m.playerAmount(ev.User))
	if err != nil {
		return err
	}

	ev.User.PlayerIndex = 1
	return m.showPrepare(ev, game)
}

func singleExit(m *Manager, ev *Event) error {
	if err := m.endSingleGame(ev); err != nil {
		return err
	}
	return m.backTo(ev)
}

func singleExitToMenu(m *Manager, ev *Event) error {
	if err := m.endSingleGame(ev); err != nil {
		return err
	}
	return m.jumpTo(ev, SceneStart)
}

// currentSingleGame fetches the caller's game; a vanished game navigates the
// user back and returns nil, nil.
func (m *Manager) currentSingleGame(ev *Event) (*model.SingleDeviceGame, error) {
	game, err := m.single.GetByUser(ev.Ctx, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil, m.backTo(ev)
		}
		return nil, err
	}
	return game, nil
}

func (m *Manager) endSingleGame(ev *Event) error {
	game, err := m.single.GetByUser(ev.Ctx, ev.User.ID)
	if err != nil {
		if errors.Is(err, apiclient.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := m.single.Remove(ev.Ctx, game.GameID); err != nil {
		return err
	}
	ev.User.PlayerIndex = 0
	return nil
}
