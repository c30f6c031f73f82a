package domain

import (
	"context"
	"time"
)

// Registration methods.
const (
	MethodSelf   = "self"
	MethodOnSpot = "on-spot"
	MethodAdmin  = "admin"
)

// Genders accepted for a person.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// CheckIn records a person's attendance at one event. A person has at most
// one check-in per event; the database enforces it with a unique constraint.
// swagger:model CheckIn
type CheckIn struct {
	EventID         string    `json:"event_id"`
	Timestamp       time.Time `json:"timestamp"`
	AuthenticatedBy string    `json:"authenticated_by"`
}

// Person represents an attendee, keyed by phone number. A person is created
// on first registration for any event; later registrations append to
// RegisteredEventIDs. RegistrationMethod and RegisteredBy reflect the first
// registration only.
// swagger:model Person
type Person struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	Gender             string    `json:"gender"`
	Address            string    `json:"address"`
	IsNamdharak        bool      `json:"is_namdharak"`
	RegisteredEventIDs []string  `json:"registered_event_ids"`
	CheckIns           []CheckIn `json:"check_ins"`
	RegisteredBy       *string   `json:"registered_by,omitempty"`
	RegistrationMethod string    `json:"registration_method"`
	CreatedAt          time.Time `json:"created_at"`
}

// IsRegisteredFor reports whether the person holds a registration for the event.
func (p *Person) IsRegisteredFor(eventID string) bool {
	for _, id := range p.RegisteredEventIDs {
		if id == eventID {
			return true
		}
	}
	return false
}

// CheckInFor returns the person's check-in for the event, if any.
func (p *Person) CheckInFor(eventID string) (CheckIn, bool) {
	for _, ci := range p.CheckIns {
		if ci.EventID == eventID {
			return ci, true
		}
	}
	return CheckIn{}, false
}

// PersonFilter holds optional filters for listing persons.
type PersonFilter struct {
	Gender             string
	AddressContains    string
	RegistrationMethod string
	// CheckedIn filters by check-in status for CheckedInEventID when non-nil.
	CheckedIn        *bool
	CheckedInEventID string
}

// PersonRepository defines the interface for person storage. The multi-row
// writes (person + registration + optional check-in) run in one database
// transaction, so a failure cannot leave a person registered on one side only.
type PersonRepository interface {
	GetByPhone(ctx context.Context, phone string) (*Person, error)
	GetByID(ctx context.Context, id string) (*Person, error)
	// CreateWithRegistration inserts the person and a registration for eventID,
	// plus a check-in when checkIn is non-nil, atomically.
	CreateWithRegistration(ctx context.Context, person *Person, eventID string, checkIn *CheckIn) error
	// AddRegistration appends a registration for an existing person, plus a
	// check-in when checkIn is non-nil, atomically.
	AddRegistration(ctx context.Context, personID, eventID string, checkIn *CheckIn) error
	AddCheckIn(ctx context.Context, personID string, checkIn *CheckIn) error
	List(ctx context.Context, filter PersonFilter, p PaginationParams) ([]*Person, int, error)
	ListRegisteredForEvent(ctx context.Context, eventID string) ([]*Person, error)
	ListCheckInTimesForEvent(ctx context.Context, eventID string) ([]time.Time, error)
	CountCheckedInForEvent(ctx context.Context, eventID string) (int, error)
}
