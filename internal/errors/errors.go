package errors

import "errors"

// Request-level errors surfaced as 4xx responses.
var (
	ErrValidation      = errors.New("invalid request")
	ErrBookingNotFound = errors.New("booking not found")
	ErrHallNotFound    = errors.New("hall not found")
	ErrNotBookingOwner = errors.New("not authorized for this booking")
	ErrAlreadyPaid     = errors.New("payment already completed")
	ErrNoPayment       = errors.New("no payment found for this booking")
	ErrRefundWindow    = errors.New("refunds can only be requested 24 hours before booking")
	ErrBookingConflict = errors.New("hall is already booked for this time slot")

	ErrNotificationNotFound = errors.New("notification not found")
	ErrRequestResolved      = errors.New("unblock request already resolved")

	ErrUnauthorized = errors.New("user is not authorized")
	ErrForbidden    = errors.New("operation is forbidden for user")
)

// Payment errors. ErrPaymentVerification means the signature check failed;
// ErrGateway means the provider call itself failed.
var (
	ErrPaymentVerification = errors.New("payment verification failed")
	ErrGateway             = errors.New("payment gateway request failed")
)
