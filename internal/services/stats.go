package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"eventcheckin/internal/domain"
)

type statsService struct {
	personRepo domain.PersonRepository
	eventRepo  domain.EventRepository
}

// NewStatsService creates a StatsService aggregating over persons registered
// for the active event.
func NewStatsService(personRepo domain.PersonRepository, eventRepo domain.EventRepository) domain.StatsService {
	return &statsService{
		personRepo: personRepo,
		eventRepo:  eventRepo,
	}
}

// percentage formats count/total as a two-decimal percentage string,
// returning "0.00" when total is zero.
func percentage(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return fmt.Sprintf("%.2f", float64(count)/float64(total)*100)
}

func (s *statsService) Gender(ctx context.Context) (*domain.GenderStats, error) {
	persons, err := s.registeredPersons(ctx)
	if err != nil {
		return nil, err
	}

	var male, female, other int
	for _, p := range persons {
		switch p.Gender {
		case domain.GenderMale:
			male++
		case domain.GenderFemale:
			female++
		case domain.GenderOther:
			other++
		}
	}

	total := len(persons)
	return &domain.GenderStats{
		Total:  total,
		Male:   domain.Bucket{Count: male, Percentage: percentage(male, total)},
		Female: domain.Bucket{Count: female, Percentage: percentage(female, total)},
		Other:  domain.Bucket{Count: other, Percentage: percentage(other, total)},
	}, nil
}

func (s *statsService) City(ctx context.Context) (*domain.CityStats, error) {
	persons, err := s.registeredPersons(ctx)
	if err != nil {
		return nil, err
	}

	// Addresses are trimmed but not normalized further; distinct
	// capitalizations form distinct buckets.
	counts := make(map[string]int)
	for _, p := range persons {
		counts[strings.TrimSpace(p.Address)]++
	}

	total := len(persons)
	cities := make([]domain.CityBucket, 0, len(counts))
	for city, count := range counts {
		cities = append(cities, domain.CityBucket{
			City:       city,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	sort.Slice(cities, func(i, j int) bool {
		if cities[i].Count != cities[j].Count {
			return cities[i].Count > cities[j].Count
		}
		return cities[i].City < cities[j].City
	})

	return &domain.CityStats{Total: total, Cities: cities}, nil
}

func (s *statsService) CheckIn(ctx context.Context) (*domain.CheckInStats, error) {
	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, err
	}
	times, err := s.personRepo.ListCheckInTimesForEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list check-in times: %w", err)
	}

	// Hour-of-day bins in server-local time.
	counts := make(map[int]int)
	for _, t := range times {
		counts[t.Hour()]++
	}

	total := len(times)
	hourly := make([]domain.HourBucket, 0, len(counts))
	hours := make([]int, 0, len(counts))
	for hour := range counts {
		hours = append(hours, hour)
	}
	sort.Ints(hours)
	for _, hour := range hours {
		hourly = append(hourly, domain.HourBucket{
			Hour:       fmt.Sprintf("%d:00", hour),
			Count:      counts[hour],
			Percentage: percentage(counts[hour], total),
		})
	}

	return &domain.CheckInStats{Total: total, Hourly: hourly}, nil
}

func (s *statsService) RegistrationMethod(ctx context.Context) (*domain.RegistrationMethodStats, error) {
	persons, err := s.registeredPersons(ctx)
	if err != nil {
		return nil, err
	}

	var self, onSpot, admin int
	for _, p := range persons {
		switch p.RegistrationMethod {
		case domain.MethodSelf:
			self++
		case domain.MethodOnSpot:
			onSpot++
		case domain.MethodAdmin:
			admin++
		}
	}

	total := len(persons)
	return &domain.RegistrationMethodStats{
		Total:  total,
		Self:   domain.Bucket{Count: self, Percentage: percentage(self, total)},
		OnSpot: domain.Bucket{Count: onSpot, Percentage: percentage(onSpot, total)},
		Admin:  domain.Bucket{Count: admin, Percentage: percentage(admin, total)},
	}, nil
}

func (s *statsService) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, err
	}
	persons, err := s.personRepo.ListRegisteredForEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list registered persons: %w", err)
	}
	checkedIn, err := s.personRepo.CountCheckedInForEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count checked in: %w", err)
	}

	stats := &domain.DashboardStats{}
	stats.Event.Name = event.Name
	stats.Event.Date = event.Date
	stats.Event.Venue = event.Venue

	total := len(persons)
	stats.Registration.Total = total
	stats.Registration.CheckedIn = checkedIn
	stats.Registration.CheckInPercentage = percentage(checkedIn, total)
	stats.Registration.Pending = total - checkedIn

	for _, p := range persons {
		if p.IsNamdharak {
			stats.Registration.NamdharakCount++
		}
		switch p.Gender {
		case domain.GenderMale:
			stats.Gender.Male++
		case domain.GenderFemale:
			stats.Gender.Female++
		case domain.GenderOther:
			stats.Gender.Other++
		}
		switch p.RegistrationMethod {
		case domain.MethodSelf:
			stats.RegistrationMethod.Self++
		case domain.MethodOnSpot:
			stats.RegistrationMethod.OnSpot++
		case domain.MethodAdmin:
			stats.RegistrationMethod.Admin++
		}
	}
	return stats, nil
}

func (s *statsService) registeredPersons(ctx context.Context) ([]*domain.Person, error) {
	event, err := s.activeEvent(ctx)
	if err != nil {
		return nil, err
	}
	persons, err := s.personRepo.ListRegisteredForEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list registered persons: %w", err)
	}
	return persons, nil
}

func (s *statsService) activeEvent(ctx context.Context) (*domain.Event, error) {
	event, err := s.eventRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveEvent
		}
		return nil, fmt.Errorf("get active event: %w", err)
	}
	return event, nil
}
