package domain

import (
	"context"
	"io"
	"time"
)

// Event represents an event accepting registrations and check-ins.
// RegisteredPersonIDs and CheckedInPersonIDs are derived from the
// registration and check-in tables when a single event is fetched; list
// queries populate the count fields only.
// swagger:model Event
type Event struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Date                time.Time `json:"date"`
	Time                string    `json:"time"`
	Venue               string    `json:"venue"`
	BannerImage         string    `json:"banner_image"`
	IsActive            bool      `json:"is_active"`
	RegisteredPersonIDs []string  `json:"registered_person_ids,omitempty"`
	CheckedInPersonIDs  []string  `json:"checked_in_person_ids,omitempty"`
	RegisteredCount     int       `json:"registered_count"`
	CheckedInCount      int       `json:"checked_in_count"`
	CreatedBy           string    `json:"created_by"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by
// the repository on create.
func NewEvent(name, description string, date time.Time, eventTime, venue, bannerImage, createdBy string, createdAt, updatedAt time.Time) *Event {
	return &Event{
		Name:        name,
		Description: description,
		Date:        date,
		Time:        eventTime,
		Venue:       venue,
		BannerImage: bannerImage,
		CreatedBy:   createdBy,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// EventUpdate holds the mutable event fields for a partial update.
// Nil fields are left unchanged.
type EventUpdate struct {
	Name        *string
	Description *string
	Date        *time.Time
	Time        *string
	Venue       *string
}

// EventRepository defines the interface for event storage. The active event
// is a single row in a dedicated table; SetActive replaces it in one atomic
// write so at most one event is active at any point.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetActive(ctx context.Context) (*Event, error)
	List(ctx context.Context, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	UpdateBannerImage(ctx context.Context, id, bannerImage string) error
	Delete(ctx context.Context, id string) error
	SetActive(ctx context.Context, id string) error
	ClearActive(ctx context.Context, id string) error
}

// EventService defines event management operations.
type EventService interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetActive(ctx context.Context) (*Event, error)
	List(ctx context.Context, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
	// UploadBanner stores the banner file and updates the event, removing the
	// previous banner from storage when one exists.
	UploadBanner(ctx context.Context, id, filename string, content io.Reader) (*Event, error)
	SetActive(ctx context.Context, id string) (*Event, error)
	Deactivate(ctx context.Context, id string) (*Event, error)
}
