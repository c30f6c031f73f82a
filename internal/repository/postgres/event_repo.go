package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventcheckin/internal/domain"
)

// foreignKeyViolation is the Postgres error code for foreign key violations.
const foreignKeyViolation = "23503"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, event_date, event_time, venue, banner_image, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Date, e.Time, e.Venue, e.BannerImage, e.CreatedBy, e.CreatedAt, e.UpdatedAt).
		Scan(&e.ID)
}

const eventColumns = `
	e.id, e.name, e.description, e.event_date, e.event_time, e.venue, e.banner_image,
	e.created_by, e.created_at, e.updated_at,
	(a.event_id IS NOT NULL) AS is_active
`

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		LEFT JOIN active_event a ON a.event_id = e.id
		WHERE e.id = $1
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadPersonIDs(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetActive(ctx context.Context) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events e
		JOIN active_event a ON a.event_id = e.id
	`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query))
	if err != nil {
		return nil, err
	}
	if err := r.loadPersonIDs(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.Venue, &e.BannerImage,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// loadPersonIDs fills the derived registered/checked-in person id sets.
func (r *eventRepository) loadPersonIDs(ctx context.Context, e *domain.Event) error {
	registered, err := r.personIDs(ctx,
		`SELECT person_id FROM registrations WHERE event_id = $1 ORDER BY created_at`, e.ID)
	if err != nil {
		return err
	}
	checkedIn, err := r.personIDs(ctx,
		`SELECT person_id FROM check_ins WHERE event_id = $1 ORDER BY checked_in_at`, e.ID)
	if err != nil {
		return err
	}
	e.RegisteredPersonIDs = registered
	e.CheckedInPersonIDs = checkedIn
	e.RegisteredCount = len(registered)
	e.CheckedInCount = len(checkedIn)
	return nil
}

func (r *eventRepository) personIDs(ctx context.Context, query, eventID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *eventRepository) List(ctx context.Context, p domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + eventColumns + `,
			(SELECT COUNT(*) FROM registrations r WHERE r.event_id = e.id) AS registered_count,
			(SELECT COUNT(*) FROM check_ins c WHERE c.event_id = e.id) AS checked_in_count
		FROM events e
		LEFT JOIN active_event a ON a.event_id = e.id
		ORDER BY e.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		e := &domain.Event{}
		err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Date, &e.Time, &e.Venue, &e.BannerImage,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt, &e.IsActive, &e.RegisteredCount, &e.CheckedInCount)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (r *eventRepository) Update(ctx context.Context, id string, upd domain.EventUpdate) (*domain.Event, error) {
	query := `
		UPDATE events
		SET name = COALESCE($2, name),
			description = COALESCE($3, description),
			event_date = COALESCE($4, event_date),
			event_time = COALESCE($5, event_time),
			venue = COALESCE($6, venue),
			updated_at = $7
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, upd.Name, upd.Description, upd.Date, upd.Time, upd.Venue, time.Now())
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *eventRepository) UpdateBannerImage(ctx context.Context, id, bannerImage string) error {
	query := `
		UPDATE events
		SET banner_image = $2, updated_at = $3
		WHERE id = $1
	`
	res, err := r.DB.ExecContext(ctx, query, id, bannerImage, time.Now())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetActive replaces the active event reference in one atomic upsert. The
// one-row active_event table makes "at most one active event" structural.
func (r *eventRepository) SetActive(ctx context.Context, id string) error {
	query := `
		INSERT INTO active_event (singleton, event_id)
		VALUES (TRUE, $1)
		ON CONFLICT (singleton) DO UPDATE SET event_id = EXCLUDED.event_id
	`
	_, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// ClearActive clears the active event reference only if it points at id.
func (r *eventRepository) ClearActive(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `UPDATE active_event SET event_id = NULL WHERE event_id = $1`, id)
	return err
}
