package domain

import "errors"

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrForbidden          = errors.New("forbidden")
	ErrNoActiveEvent      = errors.New("no active event found")
	ErrNotRegistered      = errors.New("person is not registered for the active event")
	ErrAlreadyCheckedIn   = errors.New("person is already checked in for this event")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AlreadyRegisteredError is returned when a phone number already holds a
// registration for the active event. It carries the existing person ID so
// callers can return it for credential retrieval.
type AlreadyRegisteredError struct {
	PersonID string
}

func (e *AlreadyRegisteredError) Error() string {
	return "phone number already registered for this event"
}
