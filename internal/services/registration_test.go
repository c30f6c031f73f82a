package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventcheckin/internal/domain"
)

func activeTestEvent(repo *fakeEventRepo) *domain.Event {
	e := repo.add(&domain.Event{
		Name:  "Annual Gathering",
		Date:  time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Venue: "City Hall",
	})
	repo.activeID = e.ID
	return e
}

func TestRegistrationService_RegisterSelf_NewPerson(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	event := activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	result, err := svc.RegisterSelf(ctx, domain.RegistrationInput{
		Name:        "Asha Patel",
		Phone:       "9876543210",
		Gender:      domain.GenderFemale,
		Address:     "Pune",
		IsNamdharak: true,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Person.ID)
	assert.Equal(t, domain.MethodSelf, result.Person.RegistrationMethod)
	assert.Nil(t, result.Person.RegisteredBy)
	assert.Equal(t, []string{event.ID}, result.Person.RegisteredEventIDs)
	assert.Empty(t, result.Person.CheckIns, "self registration must not check in")
	assert.Equal(t, "qr:9876543210", result.Credential)
	assert.Equal(t, event.ID, result.Event.ID)
	assert.Equal(t, 1, result.Event.RegisteredCount)
	assert.Equal(t, 0, result.Event.CheckedInCount)
}

func TestRegistrationService_RegisterSelf_NoActiveEvent(t *testing.T) {
	ctx := context.Background()
	svc := NewRegistrationService(newFakePersonRepo(), newFakeEventRepo(), fakeEncoder{})

	_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{Name: "A", Phone: "9876543210"})
	require.ErrorIs(t, err, domain.ErrNoActiveEvent)
}

func TestRegistrationService_RegisterSelf_AlreadyRegistered(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	in := domain.RegistrationInput{Name: "Asha Patel", Phone: "9876543210", Gender: domain.GenderFemale, Address: "Pune"}
	first, err := svc.RegisterSelf(ctx, in)
	require.NoError(t, err)

	_, err = svc.RegisterSelf(ctx, in)
	var already *domain.AlreadyRegisteredError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, first.Person.ID, already.PersonID)
}

func TestRegistrationService_RegisterSelf_ExistingPersonNewEvent(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	in := domain.RegistrationInput{Name: "Asha Patel", Phone: "9876543210", Gender: domain.GenderFemale, Address: "Pune"}
	_, err := svc.RegisterSelf(ctx, in)
	require.NoError(t, err)

	// A second event becomes active; the same phone registers again.
	second := eventRepo.add(&domain.Event{Name: "Winter Meet", Venue: "Hall B"})
	eventRepo.activeID = second.ID

	result, err := svc.RegisterSelf(ctx, in)
	require.NoError(t, err)
	assert.Len(t, result.Person.RegisteredEventIDs, 2)
	assert.Equal(t, domain.MethodSelf, result.Person.RegistrationMethod)
}

func TestRegistrationService_RegisterSelf_MethodSurvivesOnSpotReRegistration(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	in := domain.RegistrationInput{Name: "Asha Patel", Phone: "9876543210", Gender: domain.GenderFemale, Address: "Pune"}
	_, err := svc.RegisterSelf(ctx, in)
	require.NoError(t, err)

	second := eventRepo.add(&domain.Event{Name: "Winter Meet", Venue: "Hall B"})
	eventRepo.activeID = second.ID

	// On-spot registration for a later event keeps the first method.
	result, err := svc.RegisterOnSpot(ctx, in, "st-1")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodSelf, result.Person.RegistrationMethod)
	assert.Nil(t, result.Person.RegisteredBy)
}

func TestRegistrationService_RegisterOnSpot_ChecksInImmediately(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	event := activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	result, err := svc.RegisterOnSpot(ctx, domain.RegistrationInput{
		Name:    "Ravi Kumar",
		Phone:   "9123456780",
		Gender:  domain.GenderMale,
		Address: "Mumbai",
	}, "st-7")
	require.NoError(t, err)

	assert.Equal(t, domain.MethodOnSpot, result.Person.RegistrationMethod)
	require.NotNil(t, result.Person.RegisteredBy)
	assert.Equal(t, "st-7", *result.Person.RegisteredBy)
	require.Len(t, result.Person.CheckIns, 1)
	assert.Equal(t, event.ID, result.Person.CheckIns[0].EventID)
	assert.Equal(t, "st-7", result.Person.CheckIns[0].AuthenticatedBy)
	assert.Equal(t, 1, result.Event.CheckedInCount)
}

func TestRegistrationService_RegisterOnSpot_RequiresStaffID(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	activeTestEvent(eventRepo)
	svc := NewRegistrationService(newFakePersonRepo(), eventRepo, fakeEncoder{})

	_, err := svc.RegisterOnSpot(ctx, domain.RegistrationInput{Name: "A", Phone: "9876543210"}, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegistrationService_CheckIn(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	event := activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{
		Name: "Asha Patel", Phone: "9876543210", Gender: domain.GenderFemale, Address: "Pune",
	})
	require.NoError(t, err)

	person, err := svc.CheckIn(ctx, "9876543210", "st-2")
	require.NoError(t, err)
	require.Len(t, person.CheckIns, 1)
	assert.Equal(t, event.ID, person.CheckIns[0].EventID)
	assert.Equal(t, "st-2", person.CheckIns[0].AuthenticatedBy)
	assert.WithinDuration(t, time.Now(), person.CheckIns[0].Timestamp, time.Minute)

	_, err = svc.CheckIn(ctx, "9876543210", "st-2")
	require.ErrorIs(t, err, domain.ErrAlreadyCheckedIn)
}

func TestRegistrationService_CheckIn_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown phone", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		activeTestEvent(eventRepo)
		svc := NewRegistrationService(newFakePersonRepo(), eventRepo, fakeEncoder{})
		_, err := svc.CheckIn(ctx, "9000000000", "st-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("no active event", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		event := activeTestEvent(eventRepo)
		personRepo := newFakePersonRepo()
		svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})
		_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{Name: "A", Phone: "9876543210"})
		require.NoError(t, err)

		require.NoError(t, eventRepo.ClearActive(ctx, event.ID))
		_, err = svc.CheckIn(ctx, "9876543210", "st-1")
		require.ErrorIs(t, err, domain.ErrNoActiveEvent)
	})

	t.Run("not registered for active event", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		activeTestEvent(eventRepo)
		personRepo := newFakePersonRepo()
		svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})
		_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{Name: "A", Phone: "9876543210"})
		require.NoError(t, err)

		other := eventRepo.add(&domain.Event{Name: "Other", Venue: "X"})
		eventRepo.activeID = other.ID
		_, err = svc.CheckIn(ctx, "9876543210", "st-1")
		require.ErrorIs(t, err, domain.ErrNotRegistered)
	})
}

func TestRegistrationService_LookupByPhone(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	event := activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{
		Name: "Asha Patel", Phone: "9876543210", Gender: domain.GenderFemale, Address: "Pune",
	})
	require.NoError(t, err)

	result, err := svc.LookupByPhone(ctx, "9876543210")
	require.NoError(t, err)
	assert.Equal(t, "qr:9876543210", result.Credential)
	assert.Equal(t, event.ID, result.Event.ID)

	_, err = svc.LookupByPhone(ctx, "9000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationService_ListPersons(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	activeTestEvent(eventRepo)
	personRepo := newFakePersonRepo()
	svc := NewRegistrationService(personRepo, eventRepo, fakeEncoder{})

	_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{Name: "A", Phone: "9000000001", Gender: domain.GenderMale, Address: "Pune"})
	require.NoError(t, err)
	_, err = svc.RegisterOnSpot(ctx, domain.RegistrationInput{Name: "B", Phone: "9000000002", Gender: domain.GenderFemale, Address: "Mumbai"}, "st-1")
	require.NoError(t, err)

	checkedIn := true
	persons, total, err := svc.ListPersons(ctx, domain.PersonFilter{CheckedIn: &checkedIn}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, persons, 1)
	assert.Equal(t, "9000000002", persons[0].Phone)

	// Listing requires an active event because the check-in filter is scoped to it.
	eventRepo.activeID = ""
	_, _, err = svc.ListPersons(ctx, domain.PersonFilter{}, domain.PaginationParams{Page: 1, PageSize: 20})
	require.ErrorIs(t, err, domain.ErrNoActiveEvent)
}

func TestRegistrationService_EncoderFailure(t *testing.T) {
	ctx := context.Background()
	eventRepo := newFakeEventRepo()
	activeTestEvent(eventRepo)
	svc := NewRegistrationService(newFakePersonRepo(), eventRepo, fakeEncoder{err: errors.New("boom")})

	_, err := svc.RegisterSelf(ctx, domain.RegistrationInput{Name: "A", Phone: "9876543210"})
	require.Error(t, err)
}
