package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventcheckin/internal/domain"
	"eventcheckin/internal/monitoring"
)

type registrationService struct {
	personRepo domain.PersonRepository
	eventRepo  domain.EventRepository
	encoder    domain.CredentialEncoder
}

// NewRegistrationService creates a RegistrationService with the given
// repositories and credential encoder.
func NewRegistrationService(
	personRepo domain.PersonRepository,
	eventRepo domain.EventRepository,
	encoder domain.CredentialEncoder,
) domain.RegistrationService {
	return &registrationService{
		personRepo: personRepo,
		eventRepo:  eventRepo,
		encoder:    encoder,
	}
}

func (s *registrationService) RegisterSelf(ctx context.Context, in domain.RegistrationInput) (*domain.RegistrationResult, error) {
	return s.register(ctx, in, domain.MethodSelf, "")
}

// RegisterOnSpot registers and immediately checks the person in. The
// asymmetry with self-registration (which never checks in) is intentional:
// on-spot registration happens at the venue door.
func (s *registrationService) RegisterOnSpot(ctx context.Context, in domain.RegistrationInput, staffID string) (*domain.RegistrationResult, error) {
	if staffID == "" {
		return nil, fmt.Errorf("staff id is required: %w", domain.ErrInvalidInput)
	}
	return s.register(ctx, in, domain.MethodOnSpot, staffID)
}

func (s *registrationService) register(ctx context.Context, in domain.RegistrationInput, method, staffID string) (*domain.RegistrationResult, error) {
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Phone == "" {
		return nil, fmt.Errorf("phone is required: %w", domain.ErrInvalidInput)
	}

	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, err
	}

	// On-spot registration checks the person in as part of the same
	// transaction as the registration itself.
	var checkIn *domain.CheckIn
	if method == domain.MethodOnSpot {
		checkIn = &domain.CheckIn{
			EventID:         event.ID,
			Timestamp:       time.Now(),
			AuthenticatedBy: staffID,
		}
	}

	person, err := s.personRepo.GetByPhone(ctx, in.Phone)
	switch {
	case err == nil:
		if person.IsRegisteredFor(event.ID) {
			return nil, &domain.AlreadyRegisteredError{PersonID: person.ID}
		}
		// Existing person registering for a further event. Registration
		// method and registered_by stay as recorded at first registration.
		if err := s.personRepo.AddRegistration(ctx, person.ID, event.ID, checkIn); err != nil {
			return nil, fmt.Errorf("add registration: %w", err)
		}
		person.RegisteredEventIDs = append(person.RegisteredEventIDs, event.ID)
		if checkIn != nil {
			person.CheckIns = append(person.CheckIns, *checkIn)
		}
	case errors.Is(err, domain.ErrNotFound):
		person = &domain.Person{
			Name:               strings.TrimSpace(in.Name),
			Phone:              in.Phone,
			Gender:             in.Gender,
			Address:            strings.TrimSpace(in.Address),
			IsNamdharak:        in.IsNamdharak,
			RegistrationMethod: method,
			CreatedAt:          time.Now(),
		}
		if staffID != "" {
			person.RegisteredBy = &staffID
		}
		if err := s.personRepo.CreateWithRegistration(ctx, person, event.ID, checkIn); err != nil {
			return nil, fmt.Errorf("create person: %w", err)
		}
		person.RegisteredEventIDs = []string{event.ID}
		if checkIn != nil {
			person.CheckIns = []domain.CheckIn{*checkIn}
		} else {
			person.CheckIns = []domain.CheckIn{}
		}
	default:
		return nil, fmt.Errorf("get person by phone: %w", err)
	}

	event.RegisteredPersonIDs = append(event.RegisteredPersonIDs, person.ID)
	event.RegisteredCount++
	if checkIn != nil {
		event.CheckedInPersonIDs = append(event.CheckedInPersonIDs, person.ID)
		event.CheckedInCount++
	}

	credential, err := s.encoder.Encode(person.Phone)
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}

	monitoring.TrackRegistration(method)
	if checkIn != nil {
		monitoring.TrackCheckIn()
	}
	return &domain.RegistrationResult{
		Person:     person,
		Event:      event,
		Credential: credential,
	}, nil
}

func (s *registrationService) CheckIn(ctx context.Context, phone, staffID string) (*domain.Person, error) {
	person, err := s.personRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get person by phone: %w", err)
	}

	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, err
	}

	if !person.IsRegisteredFor(event.ID) {
		return nil, domain.ErrNotRegistered
	}
	if _, ok := person.CheckInFor(event.ID); ok {
		return nil, domain.ErrAlreadyCheckedIn
	}

	checkIn := &domain.CheckIn{
		EventID:         event.ID,
		Timestamp:       time.Now(),
		AuthenticatedBy: staffID,
	}
	if err := s.personRepo.AddCheckIn(ctx, person.ID, checkIn); err != nil {
		// The unique constraint backstops a concurrent check-in that slipped
		// past the in-memory check.
		if errors.Is(err, domain.ErrAlreadyCheckedIn) {
			return nil, domain.ErrAlreadyCheckedIn
		}
		return nil, fmt.Errorf("add check-in: %w", err)
	}
	person.CheckIns = append(person.CheckIns, *checkIn)
	monitoring.TrackCheckIn()
	return person, nil
}

func (s *registrationService) LookupByPhone(ctx context.Context, phone string) (*domain.RegistrationResult, error) {
	person, err := s.personRepo.GetByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get person by phone: %w", err)
	}

	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, err
	}
	if !person.IsRegisteredFor(event.ID) {
		return nil, domain.ErrNotRegistered
	}

	// The credential is stateless: re-derived from the phone on every lookup.
	credential, err := s.encoder.Encode(person.Phone)
	if err != nil {
		return nil, fmt.Errorf("encode credential: %w", err)
	}
	return &domain.RegistrationResult{
		Person:     person,
		Event:      event,
		Credential: credential,
	}, nil
}

func (s *registrationService) ListPersons(ctx context.Context, filter domain.PersonFilter, page domain.PaginationParams) ([]*domain.Person, int, error) {
	// The checked-in filter is always relative to the active event.
	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, 0, err
	}
	filter.CheckedInEventID = event.ID

	persons, total, err := s.personRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list persons: %w", err)
	}
	return persons, total, nil
}

func (s *registrationService) activeEvent(ctx context.Context) (*domain.Event, error) {
	event, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveEvent
		}
		return nil, fmt.Errorf("get active event: %w", err)
	}
	return event, nil
}
