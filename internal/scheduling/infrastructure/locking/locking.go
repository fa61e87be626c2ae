// Package locking serializes scheduling commands per owner, so two
// concurrent CreateTask/UpdateTask/RescheduleTask/OnNewEvent calls for
// the same user can never run the Decision Engine and cascade against
// the same placement snapshot at once.
package locking

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Locker acquires a per-owner lock for the duration of fn.
type Locker interface {
	WithLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error
}

// KeyedMutex is an in-process Locker backed by one sync.Mutex per owner.
// It is the default for a single-instance deployment; use RedisLocker
// once the scheduler runs behind more than one process.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewKeyedMutex creates an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uuid.UUID]*sync.Mutex)}
}

func (k *KeyedMutex) lockFor(ownerID uuid.UUID) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		k.locks[ownerID] = l
	}
	return l
}

// WithLock runs fn while holding ownerID's mutex. It does not observe
// ctx cancellation while waiting, since in-process lock hold times are
// bounded by the caller's own command handler.
func (k *KeyedMutex) WithLock(ctx context.Context, ownerID uuid.UUID, fn func(ctx context.Context) error) error {
	l := k.lockFor(ownerID)
	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}
