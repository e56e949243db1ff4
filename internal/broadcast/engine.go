package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"spot-the-spy-bot/internal/locale"
	"spot-the-spy-bot/internal/model"
	"spot-the-spy-bot/internal/session"
)

// GameFetcher is the slice of the game service the poller needs.
type GameFetcher interface {
	Get(ctx context.Context, gameID uuid.UUID) (*model.Game, error)
}

// deliverMode selects the platform call family for one recipient. The exact
// call is still decided by the current content kind of that recipient's
// message.
type deliverMode int

const (
	// modeEdit rewrites the message in place, replacing media if the view
	// carries a photo.
	modeEdit deliverMode = iota
	// modeCaption refreshes only the text/caption, keeping the photo.
	modeCaption
	// modeFresh posts a new message and deletes the previous one.
	modeFresh
)

// Engine renders per-recipient views and fans them out concurrently. One
// recipient's failure never aborts or delays delivery to the others.
type Engine struct {
	sender      Sender
	registry    *session.Registry
	games       GameFetcher
	qr          *QRSource
	botUsername string
	interval    time.Duration

	mu      sync.Mutex
	pollers map[uuid.UUID]*poller
	qrSeen  map[uuid.UUID]string
}

// NewEngine creates a broadcast engine.
func NewEngine(sender Sender, registry *session.Registry, games GameFetcher, qr *QRSource, botUsername string, pollInterval time.Duration) *Engine {
	return &Engine{
		sender:      sender,
		registry:    registry,
		games:       games,
		qr:          qr,
		botUsername: botUsername,
		interval:    pollInterval,
		pollers:     make(map[uuid.UUID]*poller),
		qrSeen:      make(map[uuid.UUID]string),
	}
}

// planFunc renders the view for one recipient; ok=false skips them.
type planFunc func(userID uuid.UUID, b session.Binding) (v View, mode deliverMode, ok bool)

// fanOut delivers to every bound participant of a game concurrently and
// waits for all deliveries. It iterates a defensive snapshot, so concurrent
// joins and leaves cannot corrupt the pass. Total latency is bounded by the
// slowest single delivery, not by the participant count.
func (e *Engine) fanOut(gameID uuid.UUID, plan planFunc) {
	snapshot := e.registry.Snapshot(gameID)

	var wg sync.WaitGroup
	for userID, binding := range snapshot {
		view, mode, ok := plan(userID, binding)
		if !ok {
			continue
		}

		wg.Add(1)
		go func(userID uuid.UUID, b session.Binding) {
			defer wg.Done()

			updated, err := e.deliver(b, view, mode)
			if err != nil {
				log.Warn().Err(err).
					Str("game_id", gameID.String()).
					Str("user_id", userID.String()).
					Msg("Broadcast delivery failed")
				return
			}
			e.registry.Bind(gameID, userID, updated)
		}(userID, binding)
	}
	wg.Wait()
}

// deliver executes one platform call for one recipient and returns the
// updated binding. The call is chosen from the recipient's current message
// content kind: editing a caption of a text message or texting over a photo
// are invalid at the platform level.
func (e *Engine) deliver(b session.Binding, v View, mode deliverMode) (session.Binding, error) {
	var ref MessageRef
	var err error

	switch {
	case mode == modeFresh || b.MessageID == 0:
		ref, err = e.replace(b, v)

	case mode == modeCaption:
		if b.HasPhoto {
			ref, err = e.sender.EditCaption(b.ChatID, b.MessageID, v)
		} else {
			ref, err = e.sender.EditText(b.ChatID, b.MessageID, v)
		}

	default: // modeEdit
		switch {
		case v.Photo != nil && b.HasPhoto:
			ref, err = e.sender.EditMedia(b.ChatID, b.MessageID, v)
		case v.Photo == nil && !b.HasPhoto:
			ref, err = e.sender.EditText(b.ChatID, b.MessageID, v)
		default:
			// Content kind changes (text->photo or photo->text) cannot be
			// expressed as an edit.
			ref, err = e.replace(b, v)
		}
	}

	if err != nil {
		return b, err
	}
	b.MessageID = ref.MessageID
	b.HasPhoto = ref.HasPhoto
	return b, nil
}

// replace posts a fresh message and removes the superseded one. A failed
// delete is logged and ignored: the new message is already live.
func (e *Engine) replace(b session.Binding, v View) (MessageRef, error) {
	ref, err := e.sender.Send(b.ChatID, v)
	if err != nil {
		return ref, err
	}
	if b.MessageID != 0 {
		if derr := e.sender.Delete(b.ChatID, b.MessageID); derr != nil {
			log.Debug().Err(derr).Int64("chat_id", b.ChatID).Msg("Failed to delete replaced message")
		}
	}
	return ref, nil
}

// Refresh renders a view into one user's current message, replacing the
// message when the content kind changes. Scene handlers use it for the
// acting user's own message.
func (e *Engine) Refresh(b session.Binding, v View) (session.Binding, error) {
	return e.deliver(b, v, modeEdit)
}

// Fresh posts a view as a new message for one user, deleting the previous
// one.
func (e *Engine) Fresh(b session.Binding, v View) (session.Binding, error) {
	return e.deliver(b, v, modeFresh)
}

// BroadcastRecruitment re-renders the recruiting lobby for every bound
// participant in their own locale.
func (e *Engine) BroadcastRecruitment(game *model.Game) {
	photoFn, mediaReplace := e.recruitPhoto(game)

	e.fanOut(game.GameID, func(userID uuid.UUID, b session.Binding) (View, deliverMode, bool) {
		loc := locale.Parse(b.Locale)
		isHost := game.IsHost(userID)

		if mediaReplace || !b.HasPhoto {
			return RecruitmentView(loc, game, isHost, e.botUsername, photoFn()), modeEdit, true
		}
		return RecruitmentView(loc, game, isHost, e.botUsername, nil), modeCaption, true
	})
}

// BroadcastJoin delivers the asymmetric join batch: one fresh message for
// the newcomer, caption edits for everyone already bound, all in one
// concurrent pass. The newcomer must already be bound.
func (e *Engine) BroadcastJoin(game *model.Game, newcomerID uuid.UUID) {
	photoFn, _ := e.recruitPhoto(game)

	e.fanOut(game.GameID, func(userID uuid.UUID, b session.Binding) (View, deliverMode, bool) {
		loc := locale.Parse(b.Locale)
		isHost := game.IsHost(userID)

		if userID == newcomerID {
			return RecruitmentView(loc, game, isHost, e.botUsername, photoFn()), modeFresh, true
		}
		return RecruitmentView(loc, game, isHost, e.botUsername, nil), modeCaption, true
	})
}

// BroadcastRoles reveals roles to every participant. The poller is cancelled
// first, unconditionally: a stale recruiting re-render racing in after this
// would clobber the reveal.
func (e *Engine) BroadcastRoles(game *model.Game) {
	e.StopPoller(game.GameID)

	e.fanOut(game.GameID, func(userID uuid.UUID, b session.Binding) (View, deliverMode, bool) {
		player, ok := game.Player(userID)
		if !ok {
			return View{}, 0, false
		}
		return RoleView(locale.Parse(b.Locale), game, player), modeEdit, true
	})
}

// BroadcastFinish reveals the spy to every participant.
func (e *Engine) BroadcastFinish(game *model.Game) {
	spy, ok := game.Spy()
	if !ok {
		log.Error().Str("game_id", game.GameID.String()).Msg("Finished game has no spy")
		return
	}

	e.fanOut(game.GameID, func(userID uuid.UUID, b session.Binding) (View, deliverMode, bool) {
		return FinishView(locale.Parse(b.Locale), game, spy, game.IsHost(userID)), modeEdit, true
	})
}

// BroadcastStopped delivers the terminal "stopped" view to every bound
// participant except the one tearing the game down, and cancels the poller.
func (e *Engine) BroadcastStopped(gameID uuid.UUID, exceptID uuid.UUID) {
	e.StopPoller(gameID)

	e.fanOut(gameID, func(userID uuid.UUID, b session.Binding) (View, deliverMode, bool) {
		if userID == exceptID {
			return View{}, 0, false
		}
		return StoppedView(locale.Parse(b.Locale)), modeEdit, true
	})
}

// RebindAll moves a game's full binding set under a new game id. Used by
// "play again": the prior participant set and their messages carry over to
// the freshly created game.
func (e *Engine) RebindAll(oldID, newID uuid.UUID) {
	bindings := e.registry.Drain(oldID)
	for userID, b := range bindings {
		e.registry.Bind(newID, userID, b)
	}

	e.mu.Lock()
	delete(e.qrSeen, oldID)
	e.mu.Unlock()
}

// Forget drops broadcast state for a destroyed game.
func (e *Engine) Forget(gameID uuid.UUID) {
	e.StopPoller(gameID)
	e.registry.Drain(gameID)

	e.mu.Lock()
	delete(e.qrSeen, gameID)
	e.mu.Unlock()
}

// recruitPhoto picks the QR photo source for a recruitment pass. A freshly
// ready qr_code_url forces a media replace exactly once per game; after
// that, caption edits keep the already delivered photo. Each recipient gets
// its own Photo value since file readers cannot be shared across sends.
func (e *Engine) recruitPhoto(game *model.Game) (photoFn func() *tele.Photo, mediaReplace bool) {
	if game.QRCodeURL != "" {
		e.mu.Lock()
		seen := e.qrSeen[game.GameID] == game.QRCodeURL
		e.qrSeen[game.GameID] = game.QRCodeURL
		e.mu.Unlock()

		url := game.QRCodeURL
		return func() *tele.Photo { return e.qr.FromURL(url) }, !seen
	}

	return func() *tele.Photo {
		photo, err := e.qr.Placeholder()
		if err != nil {
			log.Warn().Err(err).Msg("Placeholder QR unavailable")
			return nil
		}
		return photo
	}, false
}
