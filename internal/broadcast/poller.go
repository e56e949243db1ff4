package broadcast

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// poller is one background refresh loop for one game.
type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartPoller launches the background refresh loop for a game entering the
// recruiting state. At most one poller runs per game id: an existing poller
// for the same id is cancelled and replaced.
func (e *Engine) StartPoller(gameID uuid.UUID) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &poller{cancel: cancel, done: make(chan struct{})}

	e.mu.Lock()
	if prev, ok := e.pollers[gameID]; ok {
		prev.cancel()
	}
	e.pollers[gameID] = p
	e.mu.Unlock()

	go e.pollLoop(ctx, gameID, p)
}

// StopPoller cancels the poller for a game, if any. Cancellation is
// cooperative: it is observed at the top of the next iteration, and edits
// in flight from the current iteration complete rather than being aborted.
func (e *Engine) StopPoller(gameID uuid.UUID) {
	e.mu.Lock()
	p, ok := e.pollers[gameID]
	if ok {
		p.cancel()
		delete(e.pollers, gameID)
	}
	e.mu.Unlock()
}

// Close cancels every poller and waits for them to drain.
func (e *Engine) Close() {
	e.mu.Lock()
	pollers := make([]*poller, 0, len(e.pollers))
	for gameID, p := range e.pollers {
		p.cancel()
		pollers = append(pollers, p)
		delete(e.pollers, gameID)
	}
	e.mu.Unlock()

	for _, p := range pollers {
		<-p.done
	}
}

// remove clears the map entry when a poller terminates on its own, unless a
// replacement has already taken the slot.
func (e *Engine) remove(gameID uuid.UUID, p *poller) {
	e.mu.Lock()
	if current, ok := e.pollers[gameID]; ok && current == p {
		delete(e.pollers, gameID)
	}
	e.mu.Unlock()
}

// pollLoop periodically re-fetches the game and re-renders it for every
// bound participant, catching changes that happen between user actions. It
// is a staleness-reduction mechanism, not a correctness guarantee: any
// failure terminates this poller only, logged, never propagated.
func (e *Engine) pollLoop(ctx context.Context, gameID uuid.UUID, p *poller) {
	defer close(p.done)
	defer e.remove(gameID, p)
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).
				Str("game_id", gameID.String()).
				Msg("Poller panicked")
		}
	}()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if e.registry.Size(gameID) == 0 {
			log.Debug().Str("game_id", gameID.String()).Msg("No bound participants, poller exiting")
			return
		}

		game, err := e.games.Get(ctx, gameID)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.Warn().Err(err).Str("game_id", gameID.String()).Msg("Poller fetch failed")
			}
			return
		}

		// A start observed here means the cancellation from the start flow
		// is about to land; rendering recruiting over a role reveal would
		// clobber it.
		if game.HasStarted {
			return
		}

		e.BroadcastRecruitment(game)
	}
}
