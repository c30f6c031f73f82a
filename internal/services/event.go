package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"eventcheckin/internal/domain"
	"eventcheckin/internal/storage"
)

// DefaultBannerImage is used when an event is created without a banner.
const DefaultBannerImage = "/uploads/sample-banner.jpg"

type eventService struct {
	eventRepo domain.EventRepository
	store     storage.Storage
}

// NewEventService creates an EventService with the given repository and
// banner storage.
func NewEventService(eventRepo domain.EventRepository, store storage.Storage) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		store:     store,
	}
}

func (s *eventService) Create(ctx context.Context, event *domain.Event) error {
	if event.CreatedBy == "" {
		return fmt.Errorf("event creator is required: %w", domain.ErrInvalidInput)
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.BannerImage == "" {
		event.BannerImage = DefaultBannerImage
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.RegisteredPersonIDs = []string{}
	event.CheckedInPersonIDs = []string{}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetActive(ctx context.Context) (*domain.Event, error) {
	event, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveEvent
		}
		return nil, fmt.Errorf("get active event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Event, int, error) {
	events, total, err := s.eventRepo.List(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	event, err := s.eventRepo.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) UploadBanner(ctx context.Context, id, filename string, content io.Reader) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	url, err := s.store.Store(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("store banner: %w", err)
	}
	if err := s.eventRepo.UpdateBannerImage(ctx, id, url); err != nil {
		return nil, fmt.Errorf("update banner image: %w", err)
	}

	// Remove the replaced banner. The shared sample banner is never deleted.
	if event.BannerImage != "" && event.BannerImage != DefaultBannerImage {
		if err := s.store.Delete(ctx, event.BannerImage); err != nil {
			return nil, fmt.Errorf("delete old banner: %w", err)
		}
	}

	event.BannerImage = url
	return event, nil
}

func (s *eventService) SetActive(ctx context.Context, id string) (*domain.Event, error) {
	if err := s.eventRepo.SetActive(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set active event: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *eventService) Deactivate(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.eventRepo.ClearActive(ctx, id); err != nil {
		return nil, fmt.Errorf("clear active event: %w", err)
	}
	event.IsActive = false
	return event, nil
}
