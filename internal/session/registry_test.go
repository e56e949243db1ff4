package session

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRegistryBindLookupUnbind(t *testing.T) {
	r := NewRegistry()
	gameID, userID := uuid.New(), uuid.New()

	_, ok := r.Lookup(gameID, userID)
	assert.False(t, ok)

	b := Binding{ChatID: 10, MessageID: 5, TelegramID: 42, FirstName: "Ann", Locale: "en"}
	r.Bind(gameID, userID, b)

	got, ok := r.Lookup(gameID, userID)
	require.True(t, ok)
	assert.Equal(t, b, got)

	// Bind upserts.
	b.MessageID = 6
	r.Bind(gameID, userID, b)
	got, _ = r.Lookup(gameID, userID)
	assert.Equal(t, 6, got.MessageID)

	r.Unbind(gameID, userID)
	_, ok = r.Lookup(gameID, userID)
	assert.False(t, ok)
}

// TestRegistrySnapshotIsDefensiveCopy verifies that mutating a snapshot does
// not leak into the registry.
func TestRegistrySnapshotIsDefensiveCopy(t *testing.T) {
	r := NewRegistry()
	gameID, userID := uuid.New(), uuid.New()
	r.Bind(gameID, userID, Binding{MessageID: 1})

	snapshot := r.Snapshot(gameID)
	snapshot[userID] = Binding{MessageID: 99}
	snapshot[uuid.New()] = Binding{}

	got, ok := r.Lookup(gameID, userID)
	require.True(t, ok)
	assert.Equal(t, 1, got.MessageID)
	assert.Equal(t, 1, r.Size(gameID))
}

// TestRegistryEvictsEmptyGames verifies the last unbind removes the game
// entry entirely, which is what lets the poller detect an abandoned game.
func TestRegistryEvictsEmptyGames(t *testing.T) {
	r := NewRegistry()
	gameID := uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	r.Bind(gameID, u1, Binding{})
	r.Bind(gameID, u2, Binding{})
	require.Equal(t, 2, r.Size(gameID))

	r.Unbind(gameID, u1)
	assert.Equal(t, 1, r.Size(gameID))

	r.Unbind(gameID, u2)
	assert.Equal(t, 0, r.Size(gameID))
	assert.Nil(t, r.Snapshot(gameID))
}

func TestRegistryDrain(t *testing.T) {
	r := NewRegistry()
	gameID := uuid.New()
	u1, u2 := uuid.New(), uuid.New()

	r.Bind(gameID, u1, Binding{MessageID: 1})
	r.Bind(gameID, u2, Binding{MessageID: 2})

	drained := r.Drain(gameID)
	require.Len(t, drained, 2)
	assert.Equal(t, 0, r.Size(gameID))

	// Drain of an absent game is a nil no-op.
	assert.Nil(t, r.Drain(gameID))

	// Rebinding the drained set under a new id preserves the bindings.
	newID := uuid.New()
	for userID, b := range drained {
		r.Bind(newID, userID, b)
	}
	got, ok := r.Lookup(newID, u2)
	require.True(t, ok)
	assert.Equal(t, 2, got.MessageID)
}

func TestRegistryConcurrentBindUnbind(t *testing.T) {
	r := NewRegistry()
	gameID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := uuid.New()
			r.Bind(gameID, userID, Binding{})
			_ = r.Snapshot(gameID)
			r.Unbind(gameID, userID)
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, r.Size(gameID))
}

// TestRegistryMatchesModelProperty drives the registry with a random
// operation sequence and compares it against a plain map model.
func TestRegistryMatchesModelProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := NewRegistry()
		model := make(map[uuid.UUID]Binding)
		gameID := uuid.New()

		// A small user pool so operations collide.
		users := make([]uuid.UUID, 4)
		for i := range users {
			users[i] = uuid.New()
		}

		ops := rapid.IntRange(1, 50).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			userID := users[rapid.IntRange(0, len(users)-1).Draw(t, "user")]

			if rapid.Bool().Draw(t, "bind") {
				b := Binding{MessageID: rapid.IntRange(1, 1000).Draw(t, "messageID")}
				r.Bind(gameID, userID, b)
				model[userID] = b
			} else {
				r.Unbind(gameID, userID)
				delete(model, userID)
			}
		}

		if r.Size(gameID) != len(model) {
			t.Fatalf("size mismatch: registry=%d model=%d", r.Size(gameID), len(model))
		}
		for userID, want := range model {
			got, ok := r.Lookup(gameID, userID)
			if !ok || got != want {
				t.Fatalf("binding mismatch for %s: got=%v ok=%v want=%v", userID, got, ok, want)
			}
		}
	})
}
