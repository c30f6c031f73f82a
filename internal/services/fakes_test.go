package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"eventcheckin/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID     map[string]*domain.Event
	activeID string
	nextID   int
	err      error // if set, every method returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		copied := *e
		copied.IsActive = id == f.activeID
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetActive(ctx context.Context) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[f.activeID]; ok {
		copied := *e
		copied.IsActive = true
		return &copied, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Event
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		e.Name = *upd.Name
	}
	if upd.Description != nil {
		e.Description = *upd.Description
	}
	if upd.Date != nil {
		e.Date = *upd.Date
	}
	if upd.Time != nil {
		e.Time = *upd.Time
	}
	if upd.Venue != nil {
		e.Venue = *upd.Venue
	}
	return e, nil
}

func (f *fakeEventRepo) UpdateBannerImage(ctx context.Context, id, bannerImage string) error {
	if f.err != nil {
		return f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.BannerImage = bannerImage
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) SetActive(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	f.activeID = id
	return nil
}

func (f *fakeEventRepo) ClearActive(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if f.activeID == id {
		f.activeID = ""
	}
	return nil
}

// fakePersonRepo is an in-memory PersonRepository for tests.
type fakePersonRepo struct {
	byID   map[string]*domain.Person
	nextID int
	err    error // if set, every method returns this error
}

func newFakePersonRepo() *fakePersonRepo {
	return &fakePersonRepo{
		byID:   make(map[string]*domain.Person),
		nextID: 1,
	}
}

func (f *fakePersonRepo) GetByPhone(ctx context.Context, phone string) (*domain.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.byID {
		if p.Phone == phone {
			copied := *p
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakePersonRepo) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakePersonRepo) CreateWithRegistration(ctx context.Context, person *domain.Person, eventID string, checkIn *domain.CheckIn) error {
	if f.err != nil {
		return f.err
	}
	person.ID = fmt.Sprintf("p-%d", f.nextID)
	f.nextID++
	stored := *person
	stored.RegisteredEventIDs = []string{eventID}
	if checkIn != nil {
		stored.CheckIns = []domain.CheckIn{*checkIn}
	}
	f.byID[person.ID] = &stored
	return nil
}

func (f *fakePersonRepo) AddRegistration(ctx context.Context, personID, eventID string, checkIn *domain.CheckIn) error {
	if f.err != nil {
		return f.err
	}
	p, ok := f.byID[personID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, id := range p.RegisteredEventIDs {
		if id == eventID {
			return &domain.AlreadyRegisteredError{PersonID: personID}
		}
	}
	p.RegisteredEventIDs = append(p.RegisteredEventIDs, eventID)
	if checkIn != nil {
		p.CheckIns = append(p.CheckIns, *checkIn)
	}
	return nil
}

func (f *fakePersonRepo) AddCheckIn(ctx context.Context, personID string, checkIn *domain.CheckIn) error {
	if f.err != nil {
		return f.err
	}
	p, ok := f.byID[personID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, ci := range p.CheckIns {
		if ci.EventID == checkIn.EventID {
			return domain.ErrAlreadyCheckedIn
		}
	}
	p.CheckIns = append(p.CheckIns, *checkIn)
	return nil
}

func (f *fakePersonRepo) List(ctx context.Context, filter domain.PersonFilter, p domain.PaginationParams) ([]*domain.Person, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var out []*domain.Person
	for _, person := range f.byID {
		if filter.Gender != "" && person.Gender != filter.Gender {
			continue
		}
		if filter.RegistrationMethod != "" && person.RegistrationMethod != filter.RegistrationMethod {
			continue
		}
		if filter.AddressContains != "" && !strings.Contains(strings.ToLower(person.Address), strings.ToLower(filter.AddressContains)) {
			continue
		}
		if filter.CheckedIn != nil {
			_, checkedIn := person.CheckInFor(filter.CheckedInEventID)
			if checkedIn != *filter.CheckedIn {
				continue
			}
		}
		out = append(out, person)
	}
	return out, len(out), nil
}

func (f *fakePersonRepo) ListRegisteredForEvent(ctx context.Context, eventID string) ([]*domain.Person, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Person
	for _, p := range f.byID {
		if p.IsRegisteredFor(eventID) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePersonRepo) ListCheckInTimesForEvent(ctx context.Context, eventID string) ([]time.Time, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []time.Time
	for _, p := range f.byID {
		if ci, ok := p.CheckInFor(eventID); ok {
			out = append(out, ci.Timestamp)
		}
	}
	return out, nil
}

func (f *fakePersonRepo) CountCheckedInForEvent(ctx context.Context, eventID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := 0
	for _, p := range f.byID {
		if _, ok := p.CheckInFor(eventID); ok {
			count++
		}
	}
	return count, nil
}

// fakeEncoder returns a predictable credential for any payload.
type fakeEncoder struct {
	err error
}

func (f fakeEncoder) Encode(payload string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "qr:" + payload, nil
}

// fakeStaffRepo is an in-memory StaffRepository for tests.
type fakeStaffRepo struct {
	byID   map[string]*domain.Staff
	nextID int
	err    error // if set, every method returns this error
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		byID:   make(map[string]*domain.Staff),
		nextID: 1,
	}
}

func (f *fakeStaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Email == s.Email {
			return domain.ErrDuplicateEmail
		}
	}
	s.ID = fmt.Sprintf("st-%d", f.nextID)
	f.nextID++
	f.byID[s.ID] = s
	return nil
}

func (f *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, s := range f.byID {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStaffRepo) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeStaffRepo) List(ctx context.Context) ([]*domain.Staff, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Staff
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeStaffRepo) UpdatePassword(ctx context.Context, id, passwordHash, salt string) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.PasswordHash = passwordHash
	s.Salt = salt
	return nil
}

func (f *fakeStaffRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	s, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.LastLogin = &at
	return nil
}

// fakeHasher stores passwords as "hash(salt:password)" for easy assertions.
type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) {
	return "hash(" + salt + ":" + password + ")", nil
}

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "hash("+salt+":"+password+")" {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

// fakeIssuer issues a predictable token.
type fakeIssuer struct{}

func (fakeIssuer) Issue(staffID, email, role string, expiry time.Duration) (string, error) {
	return "token:" + staffID + ":" + role, nil
}

// fakeStorage records stored and deleted banner URLs.
type fakeStorage struct {
	stored  []string
	deleted []string
	nextID  int
}

func (f *fakeStorage) Store(ctx context.Context, filename string, content io.Reader) (string, error) {
	f.nextID++
	url := fmt.Sprintf("/uploads/banner-%d%s", f.nextID, filepath.Ext(filename))
	f.stored = append(f.stored, url)
	return url, nil
}

func (f *fakeStorage) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	return nil
}

// fakeEmailService records welcome emails instead of sending them.
type fakeEmailService struct {
	sent []*domain.StaffWelcomeEmailData
	err  error
}

func (f *fakeEmailService) SendStaffWelcome(ctx context.Context, data *domain.StaffWelcomeEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
