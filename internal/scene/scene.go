// Package scene drives the per-user state machine. Transitions are resolved
// through an explicit (scene, action) table; handlers invoke the broadcast
// engine and the game service as side effects.
package scene

import (
	"context"

	"github.com/google/uuid"

	"spot-the-spy-bot/internal/apiclient"
	"spot-the-spy-bot/internal/broadcast"
	"spot-the-spy-bot/internal/keyboard"
	"spot-the-spy-bot/internal/model"
	"spot-the-spy-bot/internal/session"
)

// Scene identifies one state of the per-user machine.
type Scene string

const (
	SceneStart           Scene = "start"
	SceneLanguage        Scene = "language"
	SceneChooseDevice    Scene = "choose_device"
	SceneSingleExplain   Scene = "single_explain"
	SceneSingleConfigure Scene = "single_configure"
	SceneSinglePlay      Scene = "single_play"
	SceneMultiExplain    Scene = "multi_explain"
	SceneMultiConfigure  Scene = "multi_configure"
	SceneMultiPlay       Scene = "multi_play"
)

// GamesAPI is the multi-device slice of the game service the scenes need.
type GamesAPI interface {
	Create(ctx context.Context, hostID uuid.UUID, playerAmount int) (*model.Game, error)
	Get(ctx context.Context, gameID uuid.UUID) (*model.Game, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.Game, error)
	Join(ctx context.Context, gameID, userID uuid.UUID) (*model.Game, error)
	Leave(ctx context.Context, gameID, userID uuid.UUID) (*model.Game, error)
	Start(ctx context.Context, gameID uuid.UUID) (*model.Game, error)
	Restart(ctx context.Context, gameID uuid.UUID) (*model.Game, error)
	Remove(ctx context.Context, gameID uuid.UUID) error
	GenerateQRCode(ctx context.Context, gameID uuid.UUID) (*model.Game, error)
}

// SingleGamesAPI is the single-device slice of the game service.
type SingleGamesAPI interface {
	Create(ctx context.Context, hostID uuid.UUID, telegramID int64, playerAmount int) (*model.SingleDeviceGame, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.SingleDeviceGame, error)
	Remove(ctx context.Context, gameID uuid.UUID) error
}

// UsersAPI is the user slice of the game service.
type UsersAPI interface {
	Update(ctx context.Context, userID uuid.UUID, req apiclient.UpdateUser) (*model.User, error)
}

// Broadcaster is the broadcast engine surface the scenes drive.
type Broadcaster interface {
	Refresh(b session.Binding, v broadcast.View) (session.Binding, error)
	Fresh(b session.Binding, v broadcast.View) (session.Binding, error)

	BroadcastRecruitment(game *model.Game)
	BroadcastJoin(game *model.Game, newcomerID uuid.UUID)
	BroadcastRoles(game *model.Game)
	BroadcastFinish(game *model.Game)
	BroadcastStopped(gameID, exceptID uuid.UUID)
	RebindAll(oldID, newID uuid.UUID)
	Forget(gameID uuid.UUID)

	StartPoller(gameID uuid.UUID)
}

// Event is one inbound user action.
type Event struct {
	Ctx  context.Context
	User *model.BotUser

	// Arg is the callback argument, e.g. the chosen player count.
	Arg string
	// Payload is the /start deep-link payload, if any.
	Payload string
	// Respond shows a toast answer on the triggering callback; may be nil.
	Respond func(text string) error
}

func (ev *Event) respond(text string) {
	if ev.Respond != nil {
		_ = ev.Respond(text)
	}
}

type handlerFunc func(m *Manager, ev *Event) error

// transitions builds the static dispatch table. Every reachable (scene,
// action) pair is listed here; anything else is ignored.
func transitions() map[Scene]map[string]handlerFunc {
	return map[Scene]map[string]handlerFunc{
		SceneStart: {
			keyboard.ActPlay:     toChooseDevice,
			keyboard.ActLanguage: toLanguage,
			keyboard.ActBack:     nop, // root: back is a no-op
			keyboard.ActMenu:     toMenu,
		},
		SceneLanguage: {
			keyboard.ActLang: chooseLanguage,
			keyboard.ActBack: back,
			keyboard.ActMenu: toMenu,
		},
		SceneChooseDevice: {
			keyboard.ActSingle: toSingleExplain,
			keyboard.ActMulti:  toMultiExplain,
			keyboard.ActBack:   back,
			keyboard.ActMenu:   toMenu,
		},
		SceneSingleExplain: {
			keyboard.ActNext: toSingleConfigure,
			keyboard.ActBack: back,
			keyboard.ActMenu: toMenu,
		},
		SceneSingleConfigure: {
			keyboard.ActPlayers: singleChoosePlayers,
			keyboard.ActStart:   singleStart,
			keyboard.ActBack:    back,
			keyboard.ActMenu:    toMenu,
		},
		SceneSinglePlay: {
			keyboard.ActViewRole:  singleViewRole,
			keyboard.ActProceed:   singleProceed,
			keyboard.ActFinish:    singleFinish,
			keyboard.ActPlayAgain: singlePlayAgain,
			keyboard.ActBack:      singleExit,
			keyboard.ActMenu:      singleExitToMenu,
		},
		SceneMultiExplain: {
			keyboard.ActNext: toMultiConfigure,
			keyboard.ActBack: back,
			keyboard.ActMenu: toMenu,
		},
		SceneMultiConfigure: {
			keyboard.ActPlayers: multiChoosePlayers,
			keyboard.ActCreate:  multiCreate,
			keyboard.ActBack:    back,
			keyboard.ActMenu:    toMenu,
		},
		SceneMultiPlay: {
			keyboard.ActStart:     multiStart,
			keyboard.ActFinish:    multiFinish,
			keyboard.ActPlayAgain: multiPlayAgain,
			keyboard.ActBack:      multiExit,
			keyboard.ActMenu:      multiExitToMenu,
		},
	}
}
