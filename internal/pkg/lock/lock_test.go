package lock

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLockSerializesSameUser(t *testing.T) {
	ul := NewUserLock()
	userID := uuid.New()

	var counter, max int
	var mu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ul.WithLock(userID, func() error {
				mu.Lock()
				counter++
				if counter > max {
					max = counter
				}
				mu.Unlock()

				mu.Lock()
				counter--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, max, "at most one holder at a time")
}

func TestWithLockDistinctUsersDoNotBlock(t *testing.T) {
	ul := NewUserLock()
	first, second := uuid.New(), uuid.New()

	ul.Lock(first)
	defer ul.Unlock(first)

	require.True(t, ul.TryLock(second))
	ul.Unlock(second)
}

func TestWithLockReturnsFnError(t *testing.T) {
	ul := NewUserLock()
	userID := uuid.New()
	wantErr := errors.New("boom")

	err := ul.WithLock(userID, func() error { return wantErr })
	assert.ErrorIs(t, err, wantErr)

	// The lock is released even when fn fails.
	require.True(t, ul.TryLock(userID))
	ul.Unlock(userID)
}
