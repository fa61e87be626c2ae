package locking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutex_SerializesSameOwner(t *testing.T) {
	k := NewKeyedMutex()
	owner := uuid.New()

	var active int32
	var maxObserved int32
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := k.WithLock(context.Background(), owner, func(ctx context.Context) error {
				n := atomic.AddInt32(&active, 1)
				if n > atomic.LoadInt32(&maxObserved) {
					atomic.StoreInt32(&maxObserved, n)
				}
				time.Sleep(2 * time.Millisecond)
				atomic.AddInt32(&active, -1)
				return nil
			})
			require.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxObserved, "critical section must never run concurrently for the same owner")
}

func TestKeyedMutex_DoesNotSerializeDifferentOwners(t *testing.T) {
	k := NewKeyedMutex()
	ownerA, ownerB := uuid.New(), uuid.New()

	started := make(chan struct{}, 2)
	release := make(chan struct{})
	var wg sync.WaitGroup

	run := func(owner uuid.UUID) {
		defer wg.Done()
		_ = k.WithLock(context.Background(), owner, func(ctx context.Context) error {
			started <- struct{}{}
			<-release
			return nil
		})
	}

	wg.Add(2)
	go run(ownerA)
	go run(ownerB)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first owner never started")
	}
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("second owner blocked behind the first owner's lock")
	}
	close(release)
	wg.Wait()
}

func TestKeyedMutex_PropagatesError(t *testing.T) {
	k := NewKeyedMutex()
	sentinel := assert.AnError
	err := k.WithLock(context.Background(), uuid.New(), func(ctx context.Context) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
}
