// Package apperrors names the error kinds of spec.md §7 and maps them
// to HTTP statuses, without throwing past the API boundary: refusals
// and conflicts are first-class return values, not panics.
package apperrors

import (
	"errors"
	"net/http"

	"github.com/felixgeelhaar/orbita/internal/scheduling/domain"
)

// Kind classifies an application-layer failure for transport mapping.
type Kind string

const (
	KindValidationFailure        Kind = "validation_failure"
	KindAuthenticationFailure    Kind = "authentication_failure"
	KindNotFound                 Kind = "not_found"
	KindSchedulingRefusal        Kind = "scheduling_refusal"
	KindConflictWithImmovable    Kind = "conflict_with_immovable"
	KindDeadlineInfeasible       Kind = "deadline_infeasible"
	KindTransientPersistenceFail Kind = "transient_persistence_failure"
	KindInvariantViolation       Kind = "invariant_violation"
)

// Error wraps an underlying cause with the Kind the API adapter needs
// to pick a status code and, where applicable, a notification type.
type Error struct {
	Kind         Kind
	Err          error
	Notification *domain.Notification
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// WithNotification attaches the Notification Pump message the caller
// should surface alongside this failure, e.g. no_optimal_time.
func (e *Error) WithNotification(n domain.Notification) *Error {
	e.Notification = &n
	return e
}

// HTTPStatus maps a Kind to the status code spec.md §7 names.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidationFailure, KindDeadlineInfeasible:
		return http.StatusBadRequest
	case KindAuthenticationFailure:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindSchedulingRefusal, KindConflictWithImmovable:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the Kind from err if it (or something it wraps) is
// an *Error, defaulting to an unexpected-fault classification.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}
