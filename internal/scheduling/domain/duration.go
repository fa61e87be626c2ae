package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrDurationTooLong = errors.New("duration exceeds the 720-minute maximum")
)

// Duration represents a task's estimated duration, constrained to the
// 1..720 minute range spec.md's data model requires.
type Duration struct {
	value time.Duration
}

// NewDuration validates and wraps a time.Duration as a task Duration.
func NewDuration(d time.Duration) (Duration, error) {
	if d < MinTaskDuration {
		return Duration{}, ErrInvalidDuration
	}
	if d > MaxTaskDuration {
		return Duration{}, ErrDurationTooLong
	}
	return Duration{value: d}, nil
}

// MustNewDuration creates a Duration or panics on error. Reserved for
// construction from compile-time-known constants.
func MustNewDuration(d time.Duration) Duration {
	dur, err := NewDuration(d)
	if err != nil {
		panic(err)
	}
	return dur
}

// Minutes returns the duration in whole minutes.
func (d Duration) Minutes() int { return int(d.value.Minutes()) }

// Value returns the underlying time.Duration.
func (d Duration) Value() time.Duration { return d.value }

func (d Duration) String() string {
	return fmt.Sprintf("%dm", d.Minutes())
}
