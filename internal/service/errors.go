package service

import "errors"

// Validation errors
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidField = errors.New("invalid field")
)

// Booking rule errors
var (
	ErrOutOfServiceArea = errors.New("address outside service area")
	ErrItemNotFound     = errors.New("item not found")
	ErrItemUnavailable  = errors.New("item unavailable")
	ErrMovieNotFound    = errors.New("movie not found")
	ErrBookingNotFound  = errors.New("booking not found")
)

// Idempotency-Key errors
var (
	ErrBookingInProgress   = errors.New("a booking with this idempotency key is in progress")
	ErrIdempotencyConflict = errors.New("idempotency key does not match a known booking")
)

// rejectReason is the metrics label for a pipeline error
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrInvalidField):
		return "invalid_field"
	case errors.Is(err, ErrOutOfServiceArea):
		return "out_of_area"
	case errors.Is(err, ErrItemNotFound), errors.Is(err, ErrMovieNotFound):
		return "not_found"
	case errors.Is(err, ErrItemUnavailable):
		return "unavailable"
	case errors.Is(err, ErrBookingInProgress), errors.Is(err, ErrIdempotencyConflict):
		return "conflict"
	default:
		return "internal"
	}
}
