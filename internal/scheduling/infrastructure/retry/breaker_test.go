package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceBreaker_PassesThroughSuccess(t *testing.T) {
	b := NewPersistenceBreaker(nil, DefaultConfig())

	result, err := b.Do(context.Background(), "task_save", func(ctx context.Context) (any, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, "closed", b.State("task_save"))
}

func TestPersistenceBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailureThreshold = 2
	b := NewPersistenceBreaker(nil, cfg)

	boom := errors.New("boom")
	for i := 0; i < 2; i++ {
		_, err := b.Do(context.Background(), "item_save", func(ctx context.Context) (any, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)
	}

	assert.Equal(t, "open", b.State("item_save"))

	_, err := b.Do(context.Background(), "item_save", func(ctx context.Context) (any, error) {
		t.Fatal("fn should not run while the breaker is open")
		return nil, nil
	})
	require.ErrorIs(t, err, ErrCircuitOpen)
}

func TestPersistenceBreaker_IsolatesOperationsByName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailureThreshold = 1
	b := NewPersistenceBreaker(nil, cfg)

	_, _ = b.Do(context.Background(), "task_save", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	assert.Equal(t, "open", b.State("task_save"))
	assert.Equal(t, "none", b.State("item_save"))

	_, err := b.Do(context.Background(), "item_save", func(ctx context.Context) (any, error) {
		return "fine", nil
	})
	require.NoError(t, err)
}

func TestPersistenceBreaker_RecoversAfterTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailureThreshold = 1
	cfg.Timeout = 10 * time.Millisecond
	b := NewPersistenceBreaker(nil, cfg)

	_, _ = b.Do(context.Background(), "task_save", func(ctx context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	assert.Equal(t, "open", b.State("task_save"))

	time.Sleep(20 * time.Millisecond)

	result, err := b.Do(context.Background(), "task_save", func(ctx context.Context) (any, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", result)
}
