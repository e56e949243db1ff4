// Package lock provides per-user locking so concurrent scene events for the
// same user serialize, in particular the game teardown on scene exit.
package lock

import (
	"sync"

	"github.com/google/uuid"
)

// UserLock hands out one mutex per user id.
type UserLock struct {
	locks sync.Map // map[uuid.UUID]*sync.Mutex
}

// NewUserLock creates a UserLock.
func NewUserLock() *UserLock {
	return &UserLock{}
}

func (ul *UserLock) get(userID uuid.UUID) *sync.Mutex {
	if v, ok := ul.locks.Load(userID); ok {
		return v.(*sync.Mutex)
	}
	v, _ := ul.locks.LoadOrStore(userID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// Lock acquires the user's lock.
func (ul *UserLock) Lock(userID uuid.UUID) {
	ul.get(userID).Lock()
}

// Unlock releases the user's lock.
func (ul *UserLock) Unlock(userID uuid.UUID) {
	ul.get(userID).Unlock()
}

// TryLock acquires the user's lock without blocking.
func (ul *UserLock) TryLock(userID uuid.UUID) bool {
	return ul.get(userID).TryLock()
}

// WithLock runs fn while holding the user's lock.
func (ul *UserLock) WithLock(userID uuid.UUID, fn func() error) error {
	ul.Lock(userID)
	defer ul.Unlock(userID)
	return fn()
}
