package apperrors

import "errors"

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrReservationNotFound = errors.New("reservation not found")

	ErrNoAvailableSpots       = errors.New("no available spots")
	ErrDuplicateReservation   = errors.New("duplicate reservation")
	ErrAlreadyCanceled        = errors.New("reservation already canceled")
	ErrAlreadyConfirmed       = errors.New("reservation already confirmed")
	ErrForbidden              = errors.New("forbidden")
	ErrCapacityBelowCommitted = errors.New("capacity below confirmed count")

	ErrInvalidInput        = errors.New("invalid input")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInternalServerError = errors.New("internal server error")
)
