package domain

import "context"

// RegistrationInput is the attendee data supplied when registering a phone
// number for the active event.
type RegistrationInput struct {
	Name        string
	Phone       string
	Gender      string
	Address     string
	IsNamdharak bool
}

// RegistrationResult bundles the person, the active event, and the QR
// credential issued for the person's phone number.
type RegistrationResult struct {
	Person     *Person `json:"person"`
	Event      *Event  `json:"event"`
	Credential string  `json:"qr_code"`
}

// CredentialEncoder renders a payload (the phone number) as a scannable
// credential, returned as a data URL.
type CredentialEncoder interface {
	Encode(payload string) (dataURL string, err error)
}

// RegistrationService is the registration and check-in decision logic.
type RegistrationService interface {
	// RegisterSelf registers the phone for the active event, creating the
	// person on first contact. Fails with ErrNoActiveEvent or
	// *AlreadyRegisteredError.
	RegisterSelf(ctx context.Context, in RegistrationInput) (*RegistrationResult, error)
	// RegisterOnSpot is RegisterSelf performed by staff at the venue: the
	// person is additionally checked in for the active event immediately.
	RegisterOnSpot(ctx context.Context, in RegistrationInput, staffID string) (*RegistrationResult, error)
	// CheckIn records attendance for the phone at the active event. Fails with
	// ErrNotFound, ErrNoActiveEvent, ErrNotRegistered, or ErrAlreadyCheckedIn.
	CheckIn(ctx context.Context, phone, staffID string) (*Person, error)
	// LookupByPhone returns the person, the active event, and a re-derived
	// credential. Fails with ErrNotFound, ErrNoActiveEvent, or ErrNotRegistered.
	LookupByPhone(ctx context.Context, phone string) (*RegistrationResult, error)
	ListPersons(ctx context.Context, filter PersonFilter, p PaginationParams) ([]*Person, int, error)
}
