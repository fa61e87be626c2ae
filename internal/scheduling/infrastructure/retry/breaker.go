// Package retry wraps scheduling persistence calls with a circuit
// breaker so a struggling database doesn't get hammered by cascading
// command retries.
package retry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config configures the persistence breaker.
type Config struct {
	// MaxRequests is the maximum number of requests allowed in half-open state.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state counter reset.
	Interval time.Duration

	// Timeout is the period the breaker stays open before probing again.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxRequests:      3,
		Interval:         10 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 5,
	}
}

// PersistenceBreaker guards repository calls behind a named circuit
// breaker, one per logical operation (e.g. "task_save", "item_find_overlapping").
type PersistenceBreaker struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[any]
	logger   *slog.Logger
	config   Config
}

// NewPersistenceBreaker creates a new PersistenceBreaker.
func NewPersistenceBreaker(logger *slog.Logger, config Config) *PersistenceBreaker {
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistenceBreaker{
		breakers: make(map[string]*gobreaker.CircuitBreaker[any]),
		logger:   logger,
		config:   config,
	}
}

func (b *PersistenceBreaker) getBreaker(name string) *gobreaker.CircuitBreaker[any] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, exists := b.breakers[name]; exists {
		return breaker
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: b.config.MaxRequests,
		Interval:    b.config.Interval,
		Timeout:     b.config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= b.config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			b.logger.Warn("persistence circuit breaker state changed",
				"operation", name, "from", from.String(), "to", to.String())
		},
	}

	breaker := gobreaker.NewCircuitBreaker[any](settings)
	b.breakers[name] = breaker
	return breaker
}

// Do executes fn behind the named breaker, returning gobreaker.ErrOpenState
// (wrapped as ErrCircuitOpen) without calling fn when the breaker is open.
func (b *PersistenceBreaker) Do(ctx context.Context, operation string, fn func(ctx context.Context) (any, error)) (any, error) {
	breaker := b.getBreaker(operation)
	result, err := breaker.Execute(func() (any, error) {
		return fn(ctx)
	})
	if err == gobreaker.ErrOpenState {
		return nil, ErrCircuitOpen
	}
	return result, err
}

// State reports the current state of the named operation's breaker, or
// "none" if it has never been exercised.
func (b *PersistenceBreaker) State(operation string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	breaker, exists := b.breakers[operation]
	if !exists {
		return "none"
	}
	return breaker.State().String()
}
