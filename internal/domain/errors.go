package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrEditConflict   = errors.New("edit conflict")
	ErrValidation     = errors.New("validation failed")

	ErrMovieNotFound    = errors.New("movie not found")
	ErrShowroomNotFound = errors.New("showroom not found")
	ErrSeatTypeNotFound = errors.New("seat type not found")
	ErrSeatNotFound     = errors.New("seat not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrTicketNotFound   = errors.New("ticket not found")

	ErrShowtimeInPast         = errors.New("showtime must start in the future")
	ErrShowtimeAlreadyStarted = errors.New("showtime has already started")
	ErrShowtimeCancelled      = errors.New("showtime has been cancelled")
	ErrSeatNotInShowroom      = errors.New("seat does not belong to the showtime's showroom")

	ErrSeatUnavailable    = errors.New("seat is not available for this showtime")
	ErrShowtimeOverlap    = errors.New("showtime overlaps an existing showtime in the showroom")
	ErrDuplicateSeat      = errors.New("a seat with the same row and number already exists in the showroom")
	ErrDuplicateName      = errors.New("name is already taken")
	ErrCapacityExceeded   = errors.New("showroom has no free capacity for another seat")
	ErrShowtimeHasTickets = errors.New("showtime prices cannot change once tickets exist")
	ErrMovieInUse         = errors.New("movie is referenced by a showtime")
	ErrHoldExpired        = errors.New("seat hold has expired")
	ErrInvalidTicketState = errors.New("ticket is not in a state that allows this operation")

	ErrPricingNotConfigured = errors.New("pricing is not configured for seat type")
	ErrCapacityMismatch     = errors.New("showroom seat count does not match its capacity")
)

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field string
	Issue string
}

func NewValidationError(field, issue string) *ValidationError {
	return &ValidationError{Field: field, Issue: issue}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Issue)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// OverlapError is returned when a showtime collides with another one in the same
// showroom. ConflictingID is zero when the store only reported the collision.
type OverlapError struct {
	ShowroomID    ShowroomID
	ConflictingID ShowtimeID
}

func (e *OverlapError) Error() string {
	if e.ConflictingID == 0 {
		return ErrShowtimeOverlap.Error()
	}

	return fmt.Sprintf("%s (showtime %d)", ErrShowtimeOverlap, e.ConflictingID)
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrShowtimeOverlap
}

// IsNotFoundError checks if the error refers to a missing entity.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound) ||
		errors.Is(err, ErrMovieNotFound) ||
		errors.Is(err, ErrShowroomNotFound) ||
		errors.Is(err, ErrSeatTypeNotFound) ||
		errors.Is(err, ErrSeatNotFound) ||
		errors.Is(err, ErrShowtimeNotFound) ||
		errors.Is(err, ErrTicketNotFound)
}

// IsValidationError checks if the error is the caller's fault: malformed input or a
// reference that cannot be used. Such errors are never retried.
func IsValidationError(err error) bool {
	return IsNotFoundError(err) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrShowtimeInPast) ||
		errors.Is(err, ErrShowtimeAlreadyStarted) ||
		errors.Is(err, ErrShowtimeCancelled) ||
		errors.Is(err, ErrSeatNotInShowroom)
}

// IsConflictError checks if the error is an expected outcome of concurrent use.
// The caller may retry with different parameters but never blindly with the same ones.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSeatUnavailable) ||
		errors.Is(err, ErrShowtimeOverlap) ||
		errors.Is(err, ErrDuplicateSeat) ||
		errors.Is(err, ErrDuplicateName) ||
		errors.Is(err, ErrCapacityExceeded) ||
		errors.Is(err, ErrShowtimeHasTickets) ||
		errors.Is(err, ErrMovieInUse) ||
		errors.Is(err, ErrHoldExpired) ||
		errors.Is(err, ErrInvalidTicketState) ||
		errors.Is(err, ErrEditConflict)
}

// IsConsistencyFault checks if the error points at broken administrative setup.
// These are logged and surfaced as internal errors.
func IsConsistencyFault(err error) bool {
	return errors.Is(err, ErrPricingNotConfigured) ||
		errors.Is(err, ErrCapacityMismatch)
}
