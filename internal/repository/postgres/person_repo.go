package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"eventcheckin/internal/domain"
)

type personRepository struct {
	DB *sql.DB
}

func NewPersonRepository(db *sql.DB) domain.PersonRepository {
	return &personRepository{DB: db}
}

const personColumns = `
	id, name, phone, gender, address, is_namdharak, registration_method, registered_by, created_at
`

func (r *personRepository) GetByPhone(ctx context.Context, phone string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE phone = $1`
	return r.getOne(ctx, query, phone)
}

func (r *personRepository) GetByID(ctx context.Context, id string) (*domain.Person, error) {
	query := `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *personRepository) getOne(ctx context.Context, query string, arg any) (*domain.Person, error) {
	p := &domain.Person{}
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&p.ID, &p.Name, &p.Phone, &p.Gender, &p.Address, &p.IsNamdharak, &p.RegistrationMethod, &p.RegisteredBy, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadRelations(ctx, []*domain.Person{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// loadRelations fills RegisteredEventIDs and CheckIns for the given persons
// with two batched queries.
func (r *personRepository) loadRelations(ctx context.Context, persons []*domain.Person) error {
	if len(persons) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Person, len(persons))
	ids := make([]string, 0, len(persons))
	for _, p := range persons {
		p.RegisteredEventIDs = []string{}
		p.CheckIns = []domain.CheckIn{}
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	regRows, err := r.DB.QueryContext(ctx,
		`SELECT person_id, event_id FROM registrations WHERE person_id = ANY($1) ORDER BY created_at`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer regRows.Close()
	for regRows.Next() {
		var personID, eventID string
		if err := regRows.Scan(&personID, &eventID); err != nil {
			return err
		}
		if p, ok := byID[personID]; ok {
			p.RegisteredEventIDs = append(p.RegisteredEventIDs, eventID)
		}
	}
	if err := regRows.Err(); err != nil {
		return err
	}

	ciRows, err := r.DB.QueryContext(ctx,
		`SELECT person_id, event_id, checked_in_at, authenticated_by FROM check_ins WHERE person_id = ANY($1) ORDER BY checked_in_at`,
		pq.Array(ids))
	if err != nil {
		return err
	}
	defer ciRows.Close()
	for ciRows.Next() {
		var personID string
		var ci domain.CheckIn
		if err := ciRows.Scan(&personID, &ci.EventID, &ci.Timestamp, &ci.AuthenticatedBy); err != nil {
			return err
		}
		if p, ok := byID[personID]; ok {
			p.CheckIns = append(p.CheckIns, ci)
		}
	}
	return ciRows.Err()
}

func (r *personRepository) CreateWithRegistration(ctx context.Context, p *domain.Person, eventID string, checkIn *domain.CheckIn) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO persons (name, phone, gender, address, is_namdharak, registration_method, registered_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, p.Name, p.Phone, p.Gender, p.Address, p.IsNamdharak, p.RegistrationMethod, p.RegisteredBy, p.CreatedAt).
		Scan(&p.ID)
	if err != nil {
		return err
	}
	if err := insertRegistration(ctx, tx, p.ID, eventID); err != nil {
		return err
	}
	if checkIn != nil {
		if err := insertCheckIn(ctx, tx, p.ID, checkIn); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *personRepository) AddRegistration(ctx context.Context, personID, eventID string, checkIn *domain.CheckIn) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertRegistration(ctx, tx, personID, eventID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return &domain.AlreadyRegisteredError{PersonID: personID}
		}
		return err
	}
	if checkIn != nil {
		if err := insertCheckIn(ctx, tx, personID, checkIn); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *personRepository) AddCheckIn(ctx context.Context, personID string, checkIn *domain.CheckIn) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertCheckIn(ctx, tx, personID, checkIn); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRegistration(ctx context.Context, tx *sql.Tx, personID, eventID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO registrations (person_id, event_id, created_at)
		VALUES ($1, $2, $3)
	`, personID, eventID, time.Now())
	return err
}

func insertCheckIn(ctx context.Context, tx *sql.Tx, personID string, ci *domain.CheckIn) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO check_ins (person_id, event_id, checked_in_at, authenticated_by)
		VALUES ($1, $2, $3, $4)
	`, personID, ci.EventID, ci.Timestamp, ci.AuthenticatedBy)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrAlreadyCheckedIn
		}
	}
	return err
}

func (r *personRepository) List(ctx context.Context, filter domain.PersonFilter, page domain.PaginationParams) ([]*domain.Person, int, error) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Gender != "" {
		conds = append(conds, "gender = "+arg(filter.Gender))
	}
	if filter.AddressContains != "" {
		conds = append(conds, "address ILIKE "+arg("%"+filter.AddressContains+"%"))
	}
	if filter.RegistrationMethod != "" {
		conds = append(conds, "registration_method = "+arg(filter.RegistrationMethod))
	}
	if filter.CheckedIn != nil {
		sub := "EXISTS (SELECT 1 FROM check_ins c WHERE c.person_id = persons.id AND c.event_id = " + arg(filter.CheckedInEventID) + ")"
		if !*filter.CheckedIn {
			sub = "NOT " + sub
		}
		conds = append(conds, sub)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM persons"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + personColumns + " FROM persons" + where +
		" ORDER BY created_at DESC LIMIT " + arg(page.PageSize) + " OFFSET " + arg(page.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	persons, err := scanPersons(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadRelations(ctx, persons); err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

func (r *personRepository) ListRegisteredForEvent(ctx context.Context, eventID string) ([]*domain.Person, error) {
	query := `
		SELECT p.id, p.name, p.phone, p.gender, p.address, p.is_namdharak, p.registration_method, p.registered_by, p.created_at
		FROM persons p
		JOIN registrations reg ON reg.person_id = p.id
		WHERE reg.event_id = $1
		ORDER BY reg.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPersons(rows)
}

func scanPersons(rows *sql.Rows) ([]*domain.Person, error) {
	persons := []*domain.Person{}
	for rows.Next() {
		p := &domain.Person{}
		err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Gender, &p.Address, &p.IsNamdharak, &p.RegistrationMethod, &p.RegisteredBy, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (r *personRepository) ListCheckInTimesForEvent(ctx context.Context, eventID string) ([]time.Time, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT checked_in_at FROM check_ins WHERE event_id = $1 ORDER BY checked_in_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *personRepository) CountCheckedInForEvent(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM check_ins WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}
