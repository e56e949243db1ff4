// Package session holds the process-local participant registry and the
// persistent per-user bot session store.
package session

import (
	"sync"

	"github.com/google/uuid"
)

// Binding associates a game participant with the message they are currently
// viewing, together with everything needed to re-render it in their own chat.
type Binding struct {
	ChatID     int64
	MessageID  int
	HasPhoto   bool
	TelegramID int64
	FirstName  string
	Locale     string
}

// Registry maps game -> participant -> message binding. It is shared mutable
// state touched by concurrent handlers and pollers; all iteration must go
// through Snapshot.
//
// Invariant: a game entry exists iff at least one participant has a binding.
type Registry struct {
	mu    sync.RWMutex
	games map[uuid.UUID]map[uuid.UUID]Binding
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[uuid.UUID]map[uuid.UUID]Binding),
	}
}

// Bind upserts a participant's message binding.
func (r *Registry) Bind(gameID, userID uuid.UUID, b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bindings, ok := r.games[gameID]
	if !ok {
		bindings = make(map[uuid.UUID]Binding)
		r.games[gameID] = bindings
	}
	bindings[userID] = b
}

// Lookup returns one participant's binding.
func (r *Registry) Lookup(gameID, userID uuid.UUID) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.games[gameID][userID]
	return b, ok
}

// Snapshot returns a defensive copy of a game's bindings. Callers must never
// iterate the live structure: concurrent Bind/Unbind calls from join and
// leave handlers can occur mid-iteration.
func (r *Registry) Snapshot(gameID uuid.UUID) map[uuid.UUID]Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bindings, ok := r.games[gameID]
	if !ok {
		return nil
	}

	snapshot := make(map[uuid.UUID]Binding, len(bindings))
	for userID, b := range bindings {
		snapshot[userID] = b
	}
	return snapshot
}

// Unbind removes one participant. When the last binding for a game goes, the
// game entry goes with it.
func (r *Registry) Unbind(gameID, userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	bindings, ok := r.games[gameID]
	if !ok {
		return
	}
	delete(bindings, userID)
	if len(bindings) == 0 {
		delete(r.games, gameID)
	}
}

// Drain atomically pops and returns a game's full binding set. Used when a
// finished game is recreated under a new id and the roster carries over.
func (r *Registry) Drain(gameID uuid.UUID) map[uuid.UUID]Binding {
	r.mu.Lock()
	defer r.mu.Unlock()

	bindings, ok := r.games[gameID]
	if !ok {
		return nil
	}
	delete(r.games, gameID)
	return bindings
}

// Size returns the number of bound participants for a game.
func (r *Registry) Size(gameID uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.games[gameID])
}
